package jwthelper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the wire form. The subject is carried under a role-specific key.
type Claims struct {
	Role         string `json:"role"`
	Email        string `json:"email"`
	UserID       string `json:"user_id,omitempty"`
	AdminID      string `json:"admin_id,omitempty"`
	SuperadminID string `json:"superadmin_id,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) subject() string {
	switch domain.Role(c.Role) {
	case domain.RoleUser:
		return c.UserID
	case domain.RoleAdmin:
		return c.AdminID
	case domain.RoleSuperadmin:
		return c.SuperadminID
	default:
		return ""
	}
}

func GenerateToken(key []byte, claims domain.Claims) (string, error) {
	wire := Claims{
		Role:  string(claims.Role),
		Email: claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	}
	switch claims.Role {
	case domain.RoleUser:
		wire.UserID = claims.SubjectID
	case domain.RoleAdmin:
		wire.AdminID = claims.SubjectID
	case domain.RoleSuperadmin:
		wire.SuperadminID = claims.SubjectID
	default:
		return "", fmt.Errorf("unknown role %q", claims.Role)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, wire)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("token.SignedString -> %w", err)
	}

	return signed, nil
}

// ParseToken verifies signature and expiry. Missing fields are left empty for
// the caller to reject.
func ParseToken(key []byte, tokenString string, opts ...jwt.ParserOption) (domain.Claims, error) {
	var wire Claims
	token, err := jwt.ParseWithClaims(tokenString, &wire, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	}, append([]jwt.ParserOption{jwt.WithExpirationRequired()}, opts...)...)
	if err != nil || !token.Valid {
		return domain.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := domain.Claims{
		Role:      domain.Role(wire.Role),
		SubjectID: wire.subject(),
		Email:     wire.Email,
	}
	if wire.ExpiresAt != nil {
		claims.ExpiresAt = wire.ExpiresAt.Time
	}

	return claims, nil
}
