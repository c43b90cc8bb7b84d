package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/request"
	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/domain"
)

type TeamService interface {
	Create(ctx context.Context, user domain.User, eventID, teamName string, members []domain.MemberDetail) (domain.Team, error)
	Join(ctx context.Context, user domain.User, eventID, code string) (domain.Team, error)
	Leave(ctx context.Context, user domain.User, eventID, teamName string) error
	Delete(ctx context.Context, user domain.User, eventID, teamName string) error
}

type TeamHandler struct {
	svc TeamService
}

func NewTeamHandler(svc TeamService) *TeamHandler {
	return &TeamHandler{
		svc: svc,
	}
}

type teamRegistered struct {
	Message  string `json:"message"`
	TeamCode string `json:"team_code"`
}

// HandleRegisterTeam godoc
// @Summary      Create a team for an event the caller is registered for
// @Description  The caller becomes the leader; the generated code lets others join.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterTeamRequest  true  "request body"
// @Success      201      {object}  teamRegistered
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /team/register [post]
// @Security     BearerAuth
func (h *TeamHandler) HandleRegisterTeam(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req request.RegisterTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	team, err := h.svc.Create(ctx.Request.Context(), user, req.EventID, req.TeamName, req.MemberDetails())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, teamRegistered{
		Message:  "Team registered successfully",
		TeamCode: team.Code,
	})
}

// HandleJoinTeam godoc
// @Summary      Join a team by its code
// @Tags         teams
// @Produce      json
// @Param        event_id   query     string  true  "Event ID"
// @Param        team_code  query     string  true  "Team code"
// @Success      200        {object}  response.Message
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Router       /team/join [patch]
// @Security     BearerAuth
func (h *TeamHandler) HandleJoinTeam(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if _, err := h.svc.Join(ctx.Request.Context(), user, ctx.Query("event_id"), ctx.Query("team_code")); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Team Member registered successfully"})
}

// HandleDeleteTeam godoc
// @Summary      Disband a team the caller leads
// @Tags         teams
// @Produce      json
// @Param        event_id   query     string  true  "Event ID"
// @Param        team_name  query     string  true  "Team name"
// @Success      200        {object}  response.Message
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Router       /team/delete [delete]
// @Security     BearerAuth
func (h *TeamHandler) HandleDeleteTeam(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), user, ctx.Query("event_id"), ctx.Query("team_name")); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Team deleted successfully"})
}

// HandleLeaveTeam godoc
// @Summary      Leave a team the caller joined
// @Tags         teams
// @Produce      json
// @Param        event_id   query     string  true  "Event ID"
// @Param        team_name  query     string  true  "Team name"
// @Success      200        {object}  response.Message
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Router       /team/leave [patch]
// @Security     BearerAuth
func (h *TeamHandler) HandleLeaveTeam(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	if err := h.svc.Leave(ctx.Request.Context(), user, ctx.Query("event_id"), ctx.Query("team_name")); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Left team successfully"})
}
