package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/jwthelper"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
	"github.com/ieee-synapse/synapse-api/internal/session"
)

// TokenVerifier checks a third-party identity token and returns its email.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type SignIn struct {
	Token     string
	ExpiresAt time.Time
	Principal domain.Principal
}

type AuthService struct {
	store      repository.Store
	sessions   Sessions
	identity   *IdentityService
	verifier   TokenVerifier
	signingKey []byte
}

func NewAuthService(store repository.Store, sessions Sessions, identity *IdentityService, verifier TokenVerifier, signingKey string) *AuthService {
	return &AuthService{
		store:      store,
		sessions:   sessions,
		identity:   identity,
		verifier:   verifier,
		signingKey: []byte(signingKey),
	}
}

// SignInUser finds the user by email in the current session, creating a stub on first sign-in.
func (s *AuthService) SignInUser(ctx context.Context, idToken string) (SignIn, error) {
	email, err := s.verify(ctx, idToken)
	if err != nil {
		return SignIn{}, err
	}

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return SignIn{}, err
	}

	user, err := part.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = part.Users().Insert(ctx, domain.User{
			ID:               objectid.New(),
			Email:            email,
			CreatedOn:        s.sessions.Now().UTC(),
			RegisteredEvents: []domain.Registration{},
		})
		if errors.Is(err, repository.ErrEmailExists) {
			user, err = part.Users().FindByEmail(ctx, email)
		} else if err == nil {
			zap.L().Info("created user stub", zap.String("session", part.Session().String()), zap.String("user_id", user.ID))
		}
	}
	if err != nil {
		return SignIn{}, fmt.Errorf("SignInUser -> %w", err)
	}

	return s.issue(domain.UserPrincipal{User: user})
}

func (s *AuthService) SignInAdmin(ctx context.Context, idToken string) (SignIn, error) {
	return s.signInAccount(ctx, idToken, domain.RoleAdmin)
}

func (s *AuthService) SignInSuperadmin(ctx context.Context, idToken string) (SignIn, error) {
	return s.signInAccount(ctx, idToken, domain.RoleSuperadmin)
}

func (s *AuthService) signInAccount(ctx context.Context, idToken string, role domain.Role) (SignIn, error) {
	email, err := s.verify(ctx, idToken)
	if err != nil {
		return SignIn{}, err
	}

	p, err := s.identity.Lookup(ctx, role, Key{Email: email}, MustExist)
	if err != nil {
		return SignIn{}, err
	}

	return s.issue(p)
}

func (s *AuthService) verify(ctx context.Context, idToken string) (string, error) {
	if idToken == "" {
		return "", domain.InvalidInput("Missing token")
	}

	email, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		zap.L().Debug("identity token rejected", zap.Error(err))
		return "", &domain.Error{Kind: domain.KindUnauthorized, Message: "Invalid Google token", Err: err}
	}

	return email, nil
}

// expiry is the end of the current session, rolled forward when that instant has already passed.
func (s *AuthService) expiry() time.Time {
	now := s.sessions.Now()
	exp := session.ExpiresAt(s.sessions.Current())
	if !exp.After(now) {
		exp = exp.AddDate(1, 0, 0)
	}

	return exp
}

func (s *AuthService) issue(p domain.Principal) (SignIn, error) {
	exp := s.expiry()

	token, err := jwthelper.GenerateToken(s.signingKey, domain.Claims{
		Role:      p.Role(),
		SubjectID: p.SubjectID(),
		Email:     p.Email(),
		ExpiresAt: exp,
	})
	if err != nil {
		return SignIn{}, fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return SignIn{Token: token, ExpiresAt: exp, Principal: p}, nil
}
