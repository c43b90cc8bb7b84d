package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/jwthelper"
	"github.com/ieee-synapse/synapse-api/internal/service"
)

const (
	ClaimsKey    = "claims"
	PrincipalKey = "principal"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid or expired token")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT parses the bearer token and stores its claims on the context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, strings.TrimSpace(token))
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errInvalidToken))
			return
		}

		ctx.Set(ClaimsKey, claims)
		ctx.Next()
	}
}

type PrincipalResolver interface {
	Resolve(ctx context.Context, claims domain.Claims, v service.Variant) (domain.Principal, error)
}

// RequirePrincipal resolves the verified claims into a principal of variant v.
// It must run after VerifyJWT.
func RequirePrincipal(resolver PrincipalResolver, v service.Variant) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, _ := ctx.Get(ClaimsKey)
		claims, ok := raw.(domain.Claims)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		p, err := resolver.Resolve(ctx.Request.Context(), claims, v)
		if err != nil {
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.Set(PrincipalKey, p)
		ctx.Next()
	}
}

func Principal(ctx *gin.Context) (domain.Principal, bool) {
	v, _ := ctx.Get(PrincipalKey)
	p, ok := v.(domain.Principal)
	return p, ok
}
