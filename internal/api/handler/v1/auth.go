package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/request"
	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/service"
)

type AuthService interface {
	SignInUser(ctx context.Context, idToken string) (service.SignIn, error)
	SignInAdmin(ctx context.Context, idToken string) (service.SignIn, error)
	SignInSuperadmin(ctx context.Context, idToken string) (service.SignIn, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

func (h *AuthHandler) signIn(ctx *gin.Context, fn func(context.Context, string) (service.SignIn, error)) {
	var req request.SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	out, err := fn(ctx.Request.Context(), req.Token)
	if err != nil {
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Token{
		AccessToken: out.Token,
		TokenType:   "bearer",
	})
}

// HandleUserSignIn godoc
// @Summary      Sign in a user with a Google id token
// @Description  Creates an unregistered user on first sign-in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SignInRequest  true  "request body"
// @Success      200      {object}  response.Token
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/user [post]
func (h *AuthHandler) HandleUserSignIn(ctx *gin.Context) {
	h.signIn(ctx, h.svc.SignInUser)
}

// HandleAdminSignIn godoc
// @Summary      Sign in an admin of the current session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SignInRequest  true  "request body"
// @Success      200      {object}  response.Token
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /auth/admin [post]
func (h *AuthHandler) HandleAdminSignIn(ctx *gin.Context) {
	h.signIn(ctx, h.svc.SignInAdmin)
}

// HandleSuperadminSignIn godoc
// @Summary      Sign in a superadmin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SignInRequest  true  "request body"
// @Success      200      {object}  response.Token
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /auth/superadmin [post]
func (h *AuthHandler) HandleSuperadminSignIn(ctx *gin.Context) {
	h.signIn(ctx, h.svc.SignInSuperadmin)
}
