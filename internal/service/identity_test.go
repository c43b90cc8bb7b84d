package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
)

func (f *fixture) account(t *testing.T, role domain.Role, email string) domain.Account {
	t.Helper()

	a := domain.Account{ID: objectid.New(), Email: email, Name: email, CreatedOn: f.now}
	var err error
	switch role {
	case domain.RoleAdmin:
		admins, aerr := f.store.Admins(f.ctx, f.sessions.Current())
		require.NoError(t, aerr)
		a, err = admins.Insert(f.ctx, a)
	case domain.RoleSuperadmin:
		a, err = f.store.Superadmins().Insert(f.ctx, a)
	}
	require.NoError(t, err)

	return a
}

func TestIdentityResolve(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "ana")
	admin := f.account(t, domain.RoleAdmin, "admin@example.com")
	super := f.account(t, domain.RoleSuperadmin, "root@example.com")
	exp := f.now.Add(time.Hour)

	tests := []struct {
		name    string
		claims  domain.Claims
		variant Variant
		kind    domain.Kind
		want    domain.Role
	}{
		{"user", domain.Claims{Role: domain.RoleUser, SubjectID: u.ID, Email: u.Email, ExpiresAt: exp}, VariantUser, 0, domain.RoleUser},
		{"admin as sudo", domain.Claims{Role: domain.RoleAdmin, SubjectID: admin.ID, Email: admin.Email}, VariantSudo, 0, domain.RoleAdmin},
		{"superadmin as sudo", domain.Claims{Role: domain.RoleSuperadmin, SubjectID: super.ID, Email: super.Email}, VariantSudo, 0, domain.RoleSuperadmin},
		{"user on admin route", domain.Claims{Role: domain.RoleUser, SubjectID: u.ID, Email: u.Email}, VariantAdmin, domain.KindForbidden, ""},
		{"admin on superadmin route", domain.Claims{Role: domain.RoleAdmin, SubjectID: admin.ID, Email: admin.Email}, VariantSuperadmin, domain.KindForbidden, ""},
		{"missing email", domain.Claims{Role: domain.RoleUser, SubjectID: u.ID}, VariantUser, domain.KindUnauthorized, ""},
		{"malformed id", domain.Claims{Role: domain.RoleUser, SubjectID: "xyz", Email: u.Email}, VariantUser, domain.KindUnauthorized, ""},
		{"unknown user", domain.Claims{Role: domain.RoleUser, SubjectID: objectid.New(), Email: u.Email}, VariantUser, domain.KindNotFound, ""},
		{"email mismatch", domain.Claims{Role: domain.RoleAdmin, SubjectID: admin.ID, Email: "x@example.com"}, VariantAdmin, domain.KindNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.identity.Resolve(f.ctx, tt.claims, tt.variant)
			if tt.kind != 0 {
				requireKind(t, tt.kind, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Role())
			assert.Equal(t, tt.claims.SubjectID, p.SubjectID())
		})
	}
}

func TestIdentityLookup_Polarity(t *testing.T) {
	f := newFixture(t)
	admin := f.account(t, domain.RoleAdmin, "admin@example.com")

	p, err := f.identity.Lookup(f.ctx, domain.RoleAdmin, Key{Email: "Admin@Example.com"}, MustExist)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, p.SubjectID())

	_, err = f.identity.Lookup(f.ctx, domain.RoleAdmin, Key{Email: admin.Email}, MustNotExist)
	requireKind(t, domain.KindConflict, err)

	p, err = f.identity.Lookup(f.ctx, domain.RoleAdmin, Key{Email: "new@example.com"}, MustNotExist)
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = f.identity.Lookup(f.ctx, domain.RoleSuperadmin, Key{Email: "new@example.com"}, MustExist)
	requireKind(t, domain.KindNotFound, err)
}

func TestIdentity_AdminBoundToCurrentSession(t *testing.T) {
	f := newFixture(t)
	admin := f.account(t, domain.RoleAdmin, "admin@example.com")

	f.now = f.now.AddDate(1, 0, 0)
	_, err := f.identity.Resolve(f.ctx, domain.Claims{Role: domain.RoleAdmin, SubjectID: admin.ID, Email: admin.Email}, VariantAdmin)
	requireKind(t, domain.KindNotFound, err)
}
