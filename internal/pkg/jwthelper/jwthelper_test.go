package jwthelper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

var key = []byte("0123456789abcdef0123")

func TestGenerateAndParse(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleSuperadmin} {
		t.Run(string(role), func(t *testing.T) {
			exp := time.Now().Add(time.Hour).Truncate(time.Second)
			token, err := GenerateToken(key, domain.Claims{
				Role:      role,
				SubjectID: "65a1f0c2e4b0a1b2c3d4e5f6",
				Email:     "a@example.com",
				ExpiresAt: exp,
			})
			require.NoError(t, err)

			claims, err := ParseToken(key, token)
			require.NoError(t, err)
			assert.Equal(t, role, claims.Role)
			assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", claims.SubjectID)
			assert.Equal(t, "a@example.com", claims.Email)
			assert.True(t, exp.Equal(claims.ExpiresAt))
		})
	}
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := GenerateToken(key, domain.Claims{
		Role: domain.RoleUser, SubjectID: "x", Email: "a@example.com", ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Role: "user", UserID: "x"}).SignedString(key)
	require.NoError(t, err)

	wrongKey, err := GenerateToken([]byte("another-key-entirely"), domain.Claims{
		Role: domain.RoleUser, SubjectID: "x", Email: "a@example.com", ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	for name, token := range map[string]string{"expired": expired, "no exp": noExp, "wrong key": wrongKey, "garbage": "abc"} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(key, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerateToken_UnknownRole(t *testing.T) {
	_, err := GenerateToken(key, domain.Claims{Role: "root"})
	assert.Error(t, err)
}
