package response

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

// Err is the error body every endpoint renders.
type Err struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	Detail string `json:"detail"`
}

func (e *Err) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return e.Detail
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("route", ctx.FullPath()),
			zap.Error(err.Err),
		)
	}

	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		Detail:         err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		Detail:         err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		Detail:         http.StatusText(http.StatusInternalServerError),
	}
}

var statusByKind = map[domain.Kind]int{
	domain.KindInvalidInput: http.StatusBadRequest,
	domain.KindUnauthorized: http.StatusUnauthorized,
	domain.KindForbidden:    http.StatusForbidden,
	domain.KindNotFound:     http.StatusNotFound,
	domain.KindConflict:     http.StatusConflict,
	domain.KindDeadline:     http.StatusBadRequest,
}

// FromError maps a service error onto its HTTP rendition. Errors without a
// domain kind are internal.
func FromError(err error) *Err {
	var de *domain.Error
	if !errors.As(err, &de) {
		return ErrInternalServerError(err)
	}

	status, ok := statusByKind[de.Kind]
	if !ok {
		return ErrInternalServerError(err)
	}

	return &Err{
		Err:            err,
		HTTPStatusCode: status,
		Detail:         de.Message,
	}
}
