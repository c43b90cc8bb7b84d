package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

// Existence is the polarity of an identity lookup.
type Existence int

const (
	MustExist Existence = iota + 1
	MustNotExist
)

// Variant is the authorization tier an endpoint requires.
type Variant int

const (
	VariantUser Variant = iota + 1
	VariantAdmin
	VariantSuperadmin
	// VariantSudo accepts admins and superadmins.
	VariantSudo
)

func (v Variant) accepts(role domain.Role) bool {
	switch v {
	case VariantUser:
		return role == domain.RoleUser
	case VariantAdmin:
		return role == domain.RoleAdmin
	case VariantSuperadmin:
		return role == domain.RoleSuperadmin
	case VariantSudo:
		return role == domain.RoleAdmin || role == domain.RoleSuperadmin
	default:
		return false
	}
}

func (v Variant) String() string {
	switch v {
	case VariantUser:
		return "user"
	case VariantAdmin:
		return "admin"
	case VariantSuperadmin:
		return "superadmin"
	case VariantSudo:
		return "sudo"
	default:
		return "unknown"
	}
}

// Key selects a record by id, email or both.
type Key struct {
	ID    string
	Email string
}

type IdentityService struct {
	store    repository.Store
	sessions Sessions
}

func NewIdentityService(store repository.Store, sessions Sessions) *IdentityService {
	return &IdentityService{
		store:    store,
		sessions: sessions,
	}
}

// Resolve turns verified claims into the principal the endpoint requires.
func (s *IdentityService) Resolve(ctx context.Context, claims domain.Claims, v Variant) (domain.Principal, error) {
	if claims.Role == "" || claims.SubjectID == "" || claims.Email == "" {
		return nil, domain.Unauthorized("Invalid token payload")
	}
	if !v.accepts(claims.Role) {
		return nil, domain.Forbidden("Not authorized as %s", v)
	}

	return s.Lookup(ctx, claims.Role, Key{ID: claims.SubjectID, Email: claims.Email}, MustExist)
}

// Lookup fetches the record for role and key. With MustNotExist a missing
// record yields a nil principal and a present one is a Conflict.
func (s *IdentityService) Lookup(ctx context.Context, role domain.Role, key Key, want Existence) (domain.Principal, error) {
	key.Email = strings.ToLower(strings.TrimSpace(key.Email))
	if key.ID == "" && key.Email == "" {
		return nil, domain.InvalidInput("Missing %s id or email", role)
	}
	if key.ID != "" && !objectid.IsValid(key.ID) {
		return nil, domain.Unauthorized("Invalid %s id", role)
	}

	found, err := s.find(ctx, role, key)
	missing := isMissing(err)
	if err != nil && !missing {
		return nil, err
	}

	switch {
	case want == MustExist && missing:
		return nil, domain.NotFound("%s not found", title(role))
	case want == MustNotExist && !missing:
		return nil, domain.Conflict("%s already exists", title(role))
	case missing:
		return nil, nil
	}

	return found, nil
}

// User is Lookup narrowed to users of the current session.
func (s *IdentityService) User(ctx context.Context, key Key) (domain.User, error) {
	p, err := s.Lookup(ctx, domain.RoleUser, key, MustExist)
	if err != nil {
		return domain.User{}, err
	}

	return p.(domain.UserPrincipal).User, nil
}

func (s *IdentityService) find(ctx context.Context, role domain.Role, key Key) (domain.Principal, error) {
	switch role {
	case domain.RoleUser:
		part, err := currentPartition(ctx, s.store, s.sessions)
		if err != nil {
			return nil, err
		}
		user, err := findBy[domain.User](ctx, part.Users(), key)
		if err != nil {
			return nil, err
		}
		return domain.UserPrincipal{User: user}, nil

	case domain.RoleAdmin:
		current := s.sessions.Current()
		admins, err := s.store.Admins(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("store.Admins -> %w", err)
		}
		account, err := findBy[domain.Account](ctx, admins, key)
		if err != nil {
			return nil, err
		}
		return domain.AdminPrincipal{Account: account, Session: current}, nil

	case domain.RoleSuperadmin:
		account, err := findBy[domain.Account](ctx, s.store.Superadmins(), key)
		if err != nil {
			return nil, err
		}
		return domain.SuperadminPrincipal{Account: account}, nil

	default:
		return nil, domain.Forbidden("Unknown role %q", role)
	}
}

type finder[T any] interface {
	FindByID(ctx context.Context, id string) (T, error)
	FindByEmail(ctx context.Context, email string) (T, error)
	FindByIDAndEmail(ctx context.Context, id, email string) (T, error)
}

func findBy[T any](ctx context.Context, f finder[T], key Key) (T, error) {
	switch {
	case key.ID != "" && key.Email != "":
		return f.FindByIDAndEmail(ctx, key.ID, key.Email)
	case key.ID != "":
		return f.FindByID(ctx, key.ID)
	default:
		return f.FindByEmail(ctx, key.Email)
	}
}

func isMissing(err error) bool {
	return errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrAccountNotFound)
}

func title(role domain.Role) string {
	switch role {
	case domain.RoleUser:
		return "User"
	case domain.RoleAdmin:
		return "Admin"
	case domain.RoleSuperadmin:
		return "Superadmin"
	default:
		return string(role)
	}
}
