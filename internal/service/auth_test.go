package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/jwthelper"
)

type stubVerifier map[string]string

func (v stubVerifier) Verify(_ context.Context, token string) (string, error) {
	email, ok := v[token]
	if !ok {
		return "", errors.New("bad token")
	}

	return email, nil
}

const testSigningKey = "test-signing-key"

func (f *fixture) jwtClock() jwt.ParserOption {
	return jwt.WithTimeFunc(func() time.Time { return f.now })
}

func (f *fixture) auth() *AuthService {
	return NewAuthService(f.store, f.sessions, f.identity, stubVerifier{
		"ana":   "ana@example.com",
		"admin": "admin@example.com",
		"root":  "root@example.com",
	}, testSigningKey)
}

func TestSignInUser_CreatesStubOnce(t *testing.T) {
	f := newFixture(t)
	auth := f.auth()

	first, err := auth.SignInUser(f.ctx, "ana")
	require.NoError(t, err)
	second, err := auth.SignInUser(f.ctx, "ana")
	require.NoError(t, err)

	assert.Equal(t, first.Principal.SubjectID(), second.Principal.SubjectID())
	users, err := f.part.Users().List(f.ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.False(t, users[0].IsRegistered())

	claims, err := jwthelper.ParseToken([]byte(testSigningKey), first.Token, f.jwtClock())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.True(t, claims.ExpiresAt.Equal(time.Date(2025, time.June, 30, 18, 30, 0, 0, time.UTC)))
}

func TestSignIn_ExpiryRollsForward(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2025, time.June, 30, 20, 0, 0, 0, time.UTC)

	in, err := f.auth().SignInUser(f.ctx, "ana")
	require.NoError(t, err)
	assert.True(t, in.ExpiresAt.After(f.now))
	assert.Equal(t, 2026, in.ExpiresAt.Year())
}

func TestSignIn_Rejections(t *testing.T) {
	f := newFixture(t)
	auth := f.auth()

	_, err := auth.SignInUser(f.ctx, "forged")
	requireKind(t, domain.KindUnauthorized, err)

	_, err = auth.SignInUser(f.ctx, "")
	requireKind(t, domain.KindInvalidInput, err)

	_, err = auth.SignInAdmin(f.ctx, "admin")
	requireKind(t, domain.KindNotFound, err)
}

func TestSignInAccounts(t *testing.T) {
	f := newFixture(t)
	admin := f.account(t, domain.RoleAdmin, "admin@example.com")
	super := f.account(t, domain.RoleSuperadmin, "root@example.com")
	auth := f.auth()

	in, err := auth.SignInAdmin(f.ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, in.Principal.SubjectID())

	in, err = auth.SignInSuperadmin(f.ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, super.ID, in.Principal.SubjectID())
	claims, err := jwthelper.ParseToken([]byte(testSigningKey), in.Token, f.jwtClock())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperadmin, claims.Role)
}
