package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
	"github.com/ieee-synapse/synapse-api/internal/repository/memstore"
)

func TestAdminLifecycle(t *testing.T) {
	f := newFixture(t)
	super := domain.SuperadminPrincipal{Account: f.account(t, domain.RoleSuperadmin, "root@example.com")}
	admins := NewAdminService(f.store, f.sessions, f.identity)

	created, err := admins.CreateAdmin(f.ctx, super, domain.Account{Name: "Ravi", Email: " Ravi@Example.com ", Role: "coordinator"})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", created.Email)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, super.Account.ID, created.CreatedBy.SuperID)

	_, err = admins.CreateAdmin(f.ctx, super, domain.Account{Email: "ravi@example.com"})
	requireKind(t, domain.KindConflict, err)

	list, err := admins.ListAdmins(f.ctx, f.sessions.Current().String())
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = admins.ListAdmins(f.ctx, "2010_2011")
	requireKind(t, domain.KindNotFound, err)
	_, err = admins.ListAdmins(f.ctx, "2010-2011")
	requireKind(t, domain.KindInvalidInput, err)

	all, err := admins.ListAllAdmins(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all[f.sessions.Current().String()], 1)

	requireKind(t, domain.KindNotFound, admins.DeleteAdmin(f.ctx, created.ID, "someone@example.com"))
	require.NoError(t, admins.DeleteAdmin(f.ctx, created.ID, created.Email))
	requireKind(t, domain.KindNotFound, admins.DeleteAdmin(f.ctx, created.ID, created.Email))
}

// unreadableAdmins fails to open the admin table of one session.
type unreadableAdmins struct {
	*memstore.Store
	broken domain.SessionID
}

func (s unreadableAdmins) Admins(ctx context.Context, id domain.SessionID) (repository.AccountStore, error) {
	if id == s.broken {
		return nil, errors.New("relation does not exist")
	}

	return s.Store.Admins(ctx, id)
}

func TestListAllAdmins_SkipsUnreadableSession(t *testing.T) {
	f := newFixture(t)
	super := domain.SuperadminPrincipal{Account: f.account(t, domain.RoleSuperadmin, "root@example.com")}
	_, err := NewAdminService(f.store, f.sessions, f.identity).CreateAdmin(f.ctx, super, domain.Account{Name: "Ravi", Email: "ravi@example.com"})
	require.NoError(t, err)

	broken := domain.SessionID("2019_2020")
	_, err = f.store.Admins(f.ctx, broken)
	require.NoError(t, err)

	admins := NewAdminService(unreadableAdmins{Store: f.store, broken: broken}, f.sessions, f.identity)
	all, err := admins.ListAllAdmins(f.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, all[f.sessions.Current().String()], 1)
	assert.NotContains(t, all, broken.String())
}
