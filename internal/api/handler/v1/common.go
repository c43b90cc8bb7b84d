package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/api/middleware"
	"github.com/ieee-synapse/synapse-api/internal/domain"
)

var errNoPrincipal = errors.New("request is not authenticated")

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Message
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Message{Message: "ok"})
}

// principalAs pulls the resolved principal of type P off the context, rendering
// 401 when it is missing.
func principalAs[P domain.Principal](ctx *gin.Context) (P, bool) {
	var zero P
	p, ok := middleware.Principal(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errNoPrincipal))
		return zero, false
	}
	typed, ok := p.(P)
	if !ok {
		response.RenderErr(ctx, response.FromError(domain.Forbidden("Not authorized for this resource")))
		return zero, false
	}

	return typed, true
}

func currentUser(ctx *gin.Context) (domain.User, bool) {
	p, ok := principalAs[domain.UserPrincipal](ctx)
	return p.User, ok
}

// renderBlob writes an image body, defaulting the content type to JPEG.
func renderBlob(ctx *gin.Context, blob domain.Blob) {
	contentType := blob.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ctx.Data(http.StatusOK, contentType, blob.Data)
}
