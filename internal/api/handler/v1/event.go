package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/request"
	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/service"
)

const imageField = "image"

type EventService interface {
	Create(ctx context.Context, in domain.Event, image *service.Upload) (domain.Event, error)
	Update(ctx context.Context, eventID string, patch domain.EventPatch, image *service.Upload) error
	Delete(ctx context.Context, eventID string) error
}

type EventHandler struct {
	svc           EventService
	maxImageBytes int
}

func NewEventHandler(svc EventService, maxImageBytes int) *EventHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = service.DefaultMaxImageBytes
	}

	return &EventHandler{
		svc:           svc,
		maxImageBytes: maxImageBytes,
	}
}

// readImage returns the optional image part. It reads one byte past the limit
// so the service can reject oversize uploads.
func (h *EventHandler) readImage(ctx *gin.Context) (*service.Upload, error) {
	fh, err := ctx.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("fh.Open -> %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(h.maxImageBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll -> %w", err)
	}

	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *EventHandler) bindForm(ctx *gin.Context, validate func(*request.EventForm) error) (request.EventForm, *service.Upload, bool) {
	var form request.EventForm
	if err := ctx.ShouldBind(&form); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return form, nil, false
	}
	if err := validate(&form); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return form, nil, false
	}

	image, err := h.readImage(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return form, nil, false
	}

	return form, image, true
}

// HandleCreateEvent godoc
// @Summary      Create an event in the current session
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Param        event_name             formData  string  true   "Event name"
// @Param        event_description      formData  string  false  "Description"
// @Param        event_date             formData  string  false  "YYYY-MM-DD"
// @Param        event_time             formData  string  false  "HH:MM"
// @Param        duration               formData  string  false  "Duration"
// @Param        last_date_to_register  formData  string  false  "YYYY-MM-DD"
// @Param        event_capacity         formData  int     false  "Capacity"
// @Param        event_type             formData  string  false  "Free or Paid"
// @Param        event_team_allowed     formData  bool    false  "Teams allowed"
// @Param        event_team_size        formData  int     false  "Team size including the leader"
// @Param        venue                  formData  string  false  "Venue"
// @Param        person_incharge        formData  string  false  "Person in charge"
// @Param        event_status           formData  string  false  "Ongoing or Completed"
// @Param        event_prizes           formData  string  false  "Prizes"
// @Param        image                  formData  file    false  "Thumbnail"
// @Success      201  {object}  response.Message
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /root/events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	form, image, ok := h.bindForm(ctx, (*request.EventForm).ValidateCreate)
	if !ok {
		return
	}

	if _, err := h.svc.Create(ctx.Request.Context(), form.ToEvent(), image); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.Message{Message: "Event created"})
}

// HandleUpdateEvent godoc
// @Summary      Update an event of the current session
// @Description  Only the fields sent are changed. Turning teams off deletes the event's teams.
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Param        event_id            path      string  true   "Event ID"
// @Param        event_name          formData  string  false  "Event name"
// @Param        event_team_allowed  formData  bool    false  "Teams allowed"
// @Param        event_team_size     formData  int     false  "Team size including the leader"
// @Param        event_status        formData  string  false  "Ongoing or Completed"
// @Param        image               formData  file    false  "Thumbnail"
// @Success      200  {object}  response.Message
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /root/events/{event_id} [patch]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	form, image, ok := h.bindForm(ctx, (*request.EventForm).ValidateUpdate)
	if !ok {
		return
	}

	if err := h.svc.Update(ctx.Request.Context(), ctx.Param("event_id"), form.ToPatch(), image); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Event updated"})
}

// HandleDeleteEvent godoc
// @Summary      Delete an event with its teams and registrations
// @Tags         events
// @Produce      json
// @Param        event_id  path      string  true  "Event ID"
// @Success      200       {object}  response.Message
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Router       /root/events/{event_id} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	if err := h.svc.Delete(ctx.Request.Context(), ctx.Param("event_id")); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Event deleted"})
}
