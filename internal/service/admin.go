package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/metrics"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

// AdminService is the superadmin tier: it provisions admins for the current session.
type AdminService struct {
	store    repository.Store
	sessions Sessions
	identity *IdentityService
}

func NewAdminService(store repository.Store, sessions Sessions, identity *IdentityService) *AdminService {
	return &AdminService{
		store:    store,
		sessions: sessions,
		identity: identity,
	}
}

func (s *AdminService) CreateAdmin(ctx context.Context, by domain.SuperadminPrincipal, in domain.Account) (account domain.Account, err error) {
	defer func() { metrics.ObserveOperation("admin.create", err) }()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if _, err = s.identity.Lookup(ctx, domain.RoleAdmin, Key{Email: in.Email}, MustNotExist); err != nil {
		return domain.Account{}, err
	}

	admins, err := s.store.Admins(ctx, s.sessions.Current())
	if err != nil {
		return domain.Account{}, fmt.Errorf("store.Admins -> %w", err)
	}

	in.ID = objectid.New()
	in.CreatedOn = s.sessions.Now().UTC()
	in.CreatedBy = &domain.Issuer{SuperID: by.Account.ID, SuperEmail: by.Account.Email}
	account, err = admins.Insert(ctx, in)
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return domain.Account{}, domain.Conflict("Admin already exists")
	case err != nil:
		return domain.Account{}, fmt.Errorf("Admins.Insert -> %w", err)
	}

	zap.L().Info("admin created",
		zap.String("session", s.sessions.Current().String()),
		zap.String("admin_id", account.ID),
		zap.String("superadmin_id", by.Account.ID),
	)

	return account, nil
}

// ListAdmins lists the admins of one session.
func (s *AdminService) ListAdmins(ctx context.Context, year string) ([]domain.Account, error) {
	id, err := s.sessions.ValidateAdmins(ctx, year)
	if err != nil {
		return nil, err
	}
	admins, err := s.store.Admins(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.Admins -> %w", err)
	}
	accounts, err := admins.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("Admins.List -> %w", err)
	}

	return accounts, nil
}

// ListAllAdmins lists admins of every session that has an admin table. A
// session whose table cannot be read is skipped.
func (s *AdminService) ListAllAdmins(ctx context.Context) (map[string][]domain.Account, error) {
	ids, err := s.store.AdminSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.AdminSessions -> %w", err)
	}

	results, err := fanOutSessions(ctx, ids, "admin.list_all", func(ctx context.Context, id domain.SessionID) ([]domain.Account, error) {
		admins, err := s.store.Admins(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("store.Admins -> %w", err)
		}
		accounts, err := admins.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("Admins.List -> %w", err)
		}
		return accounts, nil
	})
	if err != nil {
		return nil, err
	}

	return bySession(results), nil
}

// DeleteAdmin hard-deletes a current-session admin matched by id and email.
func (s *AdminService) DeleteAdmin(ctx context.Context, adminID, email string) (err error) {
	defer func() { metrics.ObserveOperation("admin.delete", err) }()

	p, err := s.identity.Lookup(ctx, domain.RoleAdmin, Key{ID: adminID, Email: email}, MustExist)
	if err != nil {
		return err
	}
	admin := p.(domain.AdminPrincipal)

	admins, err := s.store.Admins(ctx, admin.Session)
	if err != nil {
		return fmt.Errorf("store.Admins -> %w", err)
	}
	n, err := admins.DeleteByIDAndEmail(ctx, admin.Account.ID, admin.Account.Email)
	if err != nil {
		return fmt.Errorf("Admins.DeleteByIDAndEmail -> %w", err)
	}
	if n == 0 {
		return domain.NotFound("Admin not found")
	}

	return nil
}
