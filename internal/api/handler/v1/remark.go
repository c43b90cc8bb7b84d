package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/request"
	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/service"
)

type RemarkService interface {
	AttachUser(ctx context.Context, eventID string, who service.Key, remark string) error
	DetachUser(ctx context.Context, eventID string, who service.Key) error
	AttachEvent(ctx context.Context, eventID, remark string) error
	DetachEvent(ctx context.Context, eventID string) error
	AttachTeam(ctx context.Context, teamID, remark string) error
	DetachTeam(ctx context.Context, teamID string) error
}

type RemarkHandler struct {
	svc RemarkService
}

func NewRemarkHandler(svc RemarkService) *RemarkHandler {
	return &RemarkHandler{
		svc: svc,
	}
}

type validatable interface {
	Validate(withRemark bool) error
}

func bindQuery(ctx *gin.Context, req validatable, withRemark bool) bool {
	if err := ctx.ShouldBindQuery(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}
	if err := req.Validate(withRemark); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return true
}

func (h *RemarkHandler) reply(ctx *gin.Context, err error, message string) {
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: message})
}

// HandleAttachUserRemark godoc
// @Summary      Set the remark on a user's registration
// @Tags         remarks
// @Produce      json
// @Param        event_id    query     string  true  "Event ID"
// @Param        user_id     query     string  true  "User ID"
// @Param        user_email  query     string  true  "User email"
// @Param        remark      query     string  true  "Remark"
// @Success      200         {object}  response.Message
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Router       /root/remarks/user [patch]
// @Security     BearerAuth
func (h *RemarkHandler) HandleAttachUserRemark(ctx *gin.Context) {
	var req request.UserRemarkQuery
	if !bindQuery(ctx, &req, true) {
		return
	}

	err := h.svc.AttachUser(ctx.Request.Context(), req.EventID, service.Key{ID: req.UserID, Email: req.UserEmail}, req.Remark)
	h.reply(ctx, err, "Remark added")
}

// HandleDetachUserRemark godoc
// @Summary      Remove the remark from a user's registration
// @Tags         remarks
// @Produce      json
// @Param        event_id    query     string  true  "Event ID"
// @Param        user_id     query     string  true  "User ID"
// @Param        user_email  query     string  true  "User email"
// @Success      200         {object}  response.Message
// @Failure      404         {object}  response.Err
// @Router       /root/remarks/user [delete]
// @Security     BearerAuth
func (h *RemarkHandler) HandleDetachUserRemark(ctx *gin.Context) {
	var req request.UserRemarkQuery
	if !bindQuery(ctx, &req, false) {
		return
	}

	err := h.svc.DetachUser(ctx.Request.Context(), req.EventID, service.Key{ID: req.UserID, Email: req.UserEmail})
	h.reply(ctx, err, "Remark deleted")
}

// HandleAttachEventRemark godoc
// @Summary      Set the remark on an event
// @Tags         remarks
// @Produce      json
// @Param        event_id  query     string  true  "Event ID"
// @Param        remark    query     string  true  "Remark"
// @Success      200       {object}  response.Message
// @Failure      404       {object}  response.Err
// @Router       /root/remarks/event [patch]
// @Security     BearerAuth
func (h *RemarkHandler) HandleAttachEventRemark(ctx *gin.Context) {
	var req request.EventRemarkQuery
	if !bindQuery(ctx, &req, true) {
		return
	}

	h.reply(ctx, h.svc.AttachEvent(ctx.Request.Context(), req.EventID, req.Remark), "Remark added")
}

// HandleDetachEventRemark godoc
// @Summary      Remove the remark from an event
// @Tags         remarks
// @Produce      json
// @Param        event_id  query     string  true  "Event ID"
// @Success      200       {object}  response.Message
// @Failure      404       {object}  response.Err
// @Router       /root/remarks/event [delete]
// @Security     BearerAuth
func (h *RemarkHandler) HandleDetachEventRemark(ctx *gin.Context) {
	var req request.EventRemarkQuery
	if !bindQuery(ctx, &req, false) {
		return
	}

	h.reply(ctx, h.svc.DetachEvent(ctx.Request.Context(), req.EventID), "Remark deleted")
}

// HandleAttachTeamRemark godoc
// @Summary      Set the remark on a team
// @Tags         remarks
// @Produce      json
// @Param        team_id  query     string  true  "Team ID"
// @Param        remark   query     string  true  "Remark"
// @Success      200      {object}  response.Message
// @Failure      404      {object}  response.Err
// @Router       /root/remarks/team [patch]
// @Security     BearerAuth
func (h *RemarkHandler) HandleAttachTeamRemark(ctx *gin.Context) {
	var req request.TeamRemarkQuery
	if !bindQuery(ctx, &req, true) {
		return
	}

	h.reply(ctx, h.svc.AttachTeam(ctx.Request.Context(), req.TeamID, req.Remark), "Remark added")
}

// HandleDetachTeamRemark godoc
// @Summary      Remove the remark from a team
// @Tags         remarks
// @Produce      json
// @Param        team_id  query     string  true  "Team ID"
// @Success      200      {object}  response.Message
// @Failure      404      {object}  response.Err
// @Router       /root/remarks/team [delete]
// @Security     BearerAuth
func (h *RemarkHandler) HandleDetachTeamRemark(ctx *gin.Context) {
	var req request.TeamRemarkQuery
	if !bindQuery(ctx, &req, false) {
		return
	}

	h.reply(ctx, h.svc.DetachTeam(ctx.Request.Context(), req.TeamID), "Remark deleted")
}
