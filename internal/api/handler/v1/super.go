package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/request"
	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/domain"
)

type AdminService interface {
	CreateAdmin(ctx context.Context, by domain.SuperadminPrincipal, in domain.Account) (domain.Account, error)
	ListAdmins(ctx context.Context, year string) ([]domain.Account, error)
	ListAllAdmins(ctx context.Context) (map[string][]domain.Account, error)
	DeleteAdmin(ctx context.Context, adminID, email string) error
}

type SuperHandler struct {
	svc AdminService
}

func NewSuperHandler(svc AdminService) *SuperHandler {
	return &SuperHandler{
		svc: svc,
	}
}

// HandleRegisterAdmin godoc
// @Summary      Create an admin for the current session
// @Tags         super
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateAdminRequest  true  "request body"
// @Success      201      {object}  response.Message
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /super/register-admin [post]
// @Security     BearerAuth
func (h *SuperHandler) HandleRegisterAdmin(ctx *gin.Context) {
	super, ok := principalAs[domain.SuperadminPrincipal](ctx)
	if !ok {
		return
	}

	var req request.CreateAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if _, err := h.svc.CreateAdmin(ctx.Request.Context(), super, req.ToAccount()); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.Message{Message: "Admin registered successfully"})
}

// HandleGetAllAdmins godoc
// @Summary      List admins of every session
// @Tags         super
// @Produce      json
// @Success      200  {object}  response.Data[map[string][]domain.Account]
// @Failure      403  {object}  response.Err
// @Router       /super/all-admins [get]
// @Security     BearerAuth
func (h *SuperHandler) HandleGetAllAdmins(ctx *gin.Context) {
	admins, err := h.svc.ListAllAdmins(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OK(admins))
}

// HandleGetAdmins godoc
// @Summary      List admins of one session
// @Tags         super
// @Produce      json
// @Param        year  path      string  true  "Session, YYYY_YYYY"
// @Success      200   {object}  response.Data[[]domain.Account]
// @Failure      400   {object}  response.Err
// @Failure      404   {object}  response.Err
// @Router       /super/{year}/admins [get]
// @Security     BearerAuth
func (h *SuperHandler) HandleGetAdmins(ctx *gin.Context) {
	admins, err := h.svc.ListAdmins(ctx.Request.Context(), ctx.Param("year"))
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OK(admins))
}

// HandleDeleteAdmin godoc
// @Summary      Delete an admin of the current session
// @Tags         super
// @Produce      json
// @Param        admin_id  query     string  true  "Admin ID"
// @Param        email     query     string  true  "Admin email"
// @Success      200       {object}  response.Message
// @Failure      404       {object}  response.Err
// @Router       /super/delete-admin [delete]
// @Security     BearerAuth
func (h *SuperHandler) HandleDeleteAdmin(ctx *gin.Context) {
	if err := h.svc.DeleteAdmin(ctx.Request.Context(), ctx.Query("admin_id"), ctx.Query("email")); err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Admin deleted successfully"})
}
