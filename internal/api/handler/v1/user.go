package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/request"
	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/service"
)

type RegistrationService interface {
	RegisterProfile(ctx context.Context, user domain.User, profile domain.Profile) error
	ChangeDetails(ctx context.Context, user domain.User, profile domain.Profile) error
	RegisterForEvent(ctx context.Context, user domain.User, eventID string) error
	UnregisterFromEvent(ctx context.Context, user domain.User, eventID string) error
}

type UserService interface {
	Profile(user domain.User) domain.Profile
	MyRegistrations(ctx context.Context, user domain.User) ([]service.RegistrationView, error)
	RegisteredEvent(ctx context.Context, user domain.User, eventID string) (service.EventView, error)
	MyTeam(ctx context.Context, user domain.User, teamID string) (service.TeamView, error)
	CurrentEvents(ctx context.Context) ([]service.EventView, error)
	ArchiveEvents(ctx context.Context) (map[string][]service.EventView, error)
	Image(ctx context.Context, year, blobID string) (domain.Blob, error)
}

type UserHandler struct {
	registration RegistrationService
	svc          UserService
}

func NewUserHandler(registration RegistrationService, svc UserService) *UserHandler {
	return &UserHandler{
		registration: registration,
		svc:          svc,
	}
}

type registeredEvents struct {
	RegisteredEvent []service.RegistrationView `json:"registered_event"`
}

func bindProfile(ctx *gin.Context) (domain.Profile, bool) {
	var req request.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.Profile{}, false
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.Profile{}, false
	}

	return req.ToProfile(), true
}

// HandleRegisterProfile godoc
// @Summary      Complete the profile of a signed-in user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      request.ProfileRequest  true  "request body"
// @Success      200      {object}  response.Message
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /users/register [patch]
// @Security     BearerAuth
func (h *UserHandler) HandleRegisterProfile(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	profile, ok := bindProfile(ctx)
	if !ok {
		return
	}

	if err := h.registration.RegisterProfile(ctx.Request.Context(), user, profile); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "User registered successfully"})
}

// HandleChangeDetails godoc
// @Summary      Overwrite the profile of a registered user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      request.ProfileRequest  true  "request body"
// @Success      200      {object}  response.Message
// @Failure      400      {object}  response.Err
// @Router       /users/change-details [patch]
// @Security     BearerAuth
func (h *UserHandler) HandleChangeDetails(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	profile, ok := bindProfile(ctx)
	if !ok {
		return
	}

	if err := h.registration.ChangeDetails(ctx.Request.Context(), user, profile); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "User details changed successfully"})
}

// HandleRegisterEvent godoc
// @Summary      Register for an event of the current session
// @Tags         users
// @Produce      json
// @Param        event_id  query     string  true  "Event ID"
// @Success      200       {object}  response.Message
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Router       /users/register-event [patch]
// @Security     BearerAuth
func (h *UserHandler) HandleRegisterEvent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := h.registration.RegisterForEvent(ctx.Request.Context(), user, ctx.Query("event_id")); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Event registered successfully"})
}

// HandleUnregisterEvent godoc
// @Summary      Withdraw from an event
// @Tags         users
// @Produce      json
// @Param        event_id  query     string  true  "Event ID"
// @Success      200       {object}  response.Message
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Router       /users/unregister-event [delete]
// @Security     BearerAuth
func (h *UserHandler) HandleUnregisterEvent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := h.registration.UnregisterFromEvent(ctx.Request.Context(), user, ctx.Query("event_id")); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Event unregistered successfully"})
}

// HandleGetProfile godoc
// @Summary      Get the caller's profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Data[domain.Profile]
// @Failure      401  {object}  response.Err
// @Router       /users/profile [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetProfile(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, response.OK(h.svc.Profile(user)))
}

// HandleGetRegistrations godoc
// @Summary      List the caller's registrations with event and team names
// @Tags         users
// @Produce      json
// @Success      200  {object}  registeredEvents
// @Failure      401  {object}  response.Err
// @Router       /users/registered [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetRegistrations(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	views, err := h.svc.MyRegistrations(ctx.Request.Context(), user)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, registeredEvents{RegisteredEvent: views})
}

// HandleGetRegisteredEvent godoc
// @Summary      Get an event the caller is registered for
// @Tags         users
// @Produce      json
// @Param        event_id  query     string  true  "Event ID"
// @Success      200       {object}  response.Data[service.EventView]
// @Failure      404       {object}  response.Err
// @Router       /users/event [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetRegisteredEvent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	view, err := h.svc.RegisteredEvent(ctx.Request.Context(), user, ctx.Query("event_id"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OK(view))
}

// HandleGetTeam godoc
// @Summary      Get a team the caller leads or belongs to
// @Tags         users
// @Produce      json
// @Param        team_id  query     string  true  "Team ID"
// @Success      200      {object}  response.Data[service.TeamView]
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /users/team [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetTeam(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	view, err := h.svc.MyTeam(ctx.Request.Context(), user, ctx.Query("team_id"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OK(view))
}

// HandleGetEvents godoc
// @Summary      List the events of the current session
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Data[[]service.EventView]
// @Router       /users/events [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetEvents(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	views, err := h.svc.CurrentEvents(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OK(views))
}

// HandleGetArchive godoc
// @Summary      List the events of every session
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Data[map[string][]service.EventView]
// @Router       /users/archive [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetArchive(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	archive, err := h.svc.ArchiveEvents(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OK(archive))
}

// HandleGetImage godoc
// @Summary      Fetch an event thumbnail
// @Description  Without a year the current session is used.
// @Tags         users
// @Produce      image/png,image/jpeg
// @Param        year      path  string  false  "Session, YYYY_YYYY"
// @Param        image_id  path  string  true   "Image ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /users/image/{year}/{image_id} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetImage(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	blob, err := h.svc.Image(ctx.Request.Context(), ctx.Param("year"), ctx.Param("image_id"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	renderBlob(ctx, blob)
}
