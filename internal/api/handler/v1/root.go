package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/service"
)

type ReportService interface {
	AllUsers(ctx context.Context) (map[string]service.Page[service.UserSummary], error)
	AllTeams(ctx context.Context) (map[string]service.Page[service.TeamSummary], error)
	AllEvents(ctx context.Context) (map[string]service.Page[service.EventSummary], error)
	Users(ctx context.Context, year string) (service.Page[service.UserSummary], error)
	Teams(ctx context.Context, year string) (service.Page[service.TeamSummary], error)
	Events(ctx context.Context, year string) (service.Page[service.EventSummary], error)
	UserDetail(ctx context.Context, year, userID string) (service.UserDetail, error)
	TeamDetail(ctx context.Context, year, teamID string) (service.TeamDetail, error)
	EventDetail(ctx context.Context, year, eventID string) (service.EventDetail, error)
	ArchiveImage(ctx context.Context, year, blobID string) (domain.Blob, error)
}

type RootHandler struct {
	svc ReportService
}

func NewRootHandler(svc ReportService) *RootHandler {
	return &RootHandler{
		svc: svc,
	}
}

func renderAll[T any](ctx *gin.Context, fn func(context.Context) (map[string]service.Page[T], error)) {
	pages, err := fn(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OK(pages))
}

func renderYear[T any](ctx *gin.Context, fn func(context.Context, string) (service.Page[T], error)) {
	year := ctx.Param("year")
	page, err := fn(ctx.Request.Context(), year)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.YearPage[T]{
		Success: true,
		Year:    year,
		Count:   page.Count,
		Data:    page.Data,
	})
}

func renderDetail[T any](ctx *gin.Context, param string, fn func(context.Context, string, string) (T, error)) {
	year := ctx.Param("year")
	detail, err := fn(ctx.Request.Context(), year, ctx.Param(param))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.YearData[T]{
		Success: true,
		Year:    year,
		Data:    detail,
	})
}

// HandleGetAllUsers godoc
// @Summary      Summarise users of every session
// @Tags         root
// @Produce      json
// @Success      200  {object}  response.Data[map[string]service.Page[service.UserSummary]]
// @Router       /root/getUser/all-users [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetAllUsers(ctx *gin.Context) {
	renderAll(ctx, h.svc.AllUsers)
}

// HandleGetUsers godoc
// @Summary      Summarise users of one session
// @Tags         root
// @Produce      json
// @Param        year  path      string  true  "Session, YYYY_YYYY"
// @Success      200   {object}  response.YearPage[service.UserSummary]
// @Failure      400   {object}  response.Err
// @Failure      404   {object}  response.Err
// @Router       /root/getUser/{year} [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetUsers(ctx *gin.Context) {
	renderYear(ctx, h.svc.Users)
}

// HandleGetUser godoc
// @Summary      Get a user with enriched registrations
// @Tags         root
// @Produce      json
// @Param        year     path      string  true  "Session, YYYY_YYYY"
// @Param        user_id  path      string  true  "User ID"
// @Success      200      {object}  response.YearData[service.UserDetail]
// @Failure      404      {object}  response.Err
// @Router       /root/getUser/{year}/{user_id} [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetUser(ctx *gin.Context) {
	renderDetail(ctx, "user_id", h.svc.UserDetail)
}

// HandleGetAllTeams godoc
// @Summary      Summarise teams of every session
// @Tags         root
// @Produce      json
// @Success      200  {object}  response.Data[map[string]service.Page[service.TeamSummary]]
// @Router       /root/getTeam/all-teams [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetAllTeams(ctx *gin.Context) {
	renderAll(ctx, h.svc.AllTeams)
}

// HandleGetTeams godoc
// @Summary      Summarise teams of one session
// @Tags         root
// @Produce      json
// @Param        year  path      string  true  "Session, YYYY_YYYY"
// @Success      200   {object}  response.YearPage[service.TeamSummary]
// @Failure      404   {object}  response.Err
// @Router       /root/getTeam/{year} [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetTeams(ctx *gin.Context) {
	renderYear(ctx, h.svc.Teams)
}

// HandleGetTeam godoc
// @Summary      Get a team with its leader and members resolved
// @Tags         root
// @Produce      json
// @Param        year     path      string  true  "Session, YYYY_YYYY"
// @Param        team_id  path      string  true  "Team ID"
// @Success      200      {object}  response.YearData[service.TeamDetail]
// @Failure      404      {object}  response.Err
// @Router       /root/getTeam/{year}/{team_id} [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetTeam(ctx *gin.Context) {
	renderDetail(ctx, "team_id", h.svc.TeamDetail)
}

// HandleGetAllEvents godoc
// @Summary      Summarise events of every session
// @Tags         root
// @Produce      json
// @Success      200  {object}  response.Data[map[string]service.Page[service.EventSummary]]
// @Router       /root/getEvent/all-events [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetAllEvents(ctx *gin.Context) {
	renderAll(ctx, h.svc.AllEvents)
}

// HandleGetEvents godoc
// @Summary      Summarise events of one session
// @Tags         root
// @Produce      json
// @Param        year  path      string  true  "Session, YYYY_YYYY"
// @Success      200   {object}  response.YearPage[service.EventSummary]
// @Failure      404   {object}  response.Err
// @Router       /root/getEvent/{year} [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetEvents(ctx *gin.Context) {
	renderYear(ctx, h.svc.Events)
}

// HandleGetEvent godoc
// @Summary      Get an event with registered users and teams
// @Tags         root
// @Produce      json
// @Param        year      path      string  true  "Session, YYYY_YYYY"
// @Param        event_id  path      string  true  "Event ID"
// @Success      200       {object}  response.YearData[service.EventDetail]
// @Failure      404       {object}  response.Err
// @Router       /root/getEvent/{year}/{event_id} [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetEvent(ctx *gin.Context) {
	renderDetail(ctx, "event_id", h.svc.EventDetail)
}

// HandleGetArchiveImage godoc
// @Summary      Fetch a thumbnail from any session
// @Tags         root
// @Produce      image/png,image/jpeg
// @Param        year      path  string  true  "Session, YYYY_YYYY"
// @Param        image_id  path  string  true  "Image ID"
// @Success      200
// @Failure      404  {object}  response.Err
// @Router       /root/getEvent/image/{year}/{image_id} [get]
// @Security     BearerAuth
func (h *RootHandler) HandleGetArchiveImage(ctx *gin.Context) {
	blob, err := h.svc.ArchiveImage(ctx.Request.Context(), ctx.Param("year"), ctx.Param("image_id"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	renderBlob(ctx, blob)
}
