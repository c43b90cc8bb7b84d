package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/metrics"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

// RegistrationService owns the user profile lifecycle and event registration.
type RegistrationService struct {
	store    repository.Store
	sessions Sessions
}

func NewRegistrationService(store repository.Store, sessions Sessions) *RegistrationService {
	return &RegistrationService{
		store:    store,
		sessions: sessions,
	}
}

func normalizeProfile(user domain.User, profile domain.Profile) (domain.Profile, error) {
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.Email != user.Email {
		return domain.Profile{}, domain.InvalidInput("Email does not match the signed-in account")
	}
	profile.GithubProfile = strings.TrimSpace(profile.GithubProfile)
	profile.LinkedinProfile = strings.TrimSpace(profile.LinkedinProfile)

	return profile, nil
}

// RegisterProfile moves a sign-in stub to a registered user.
func (s *RegistrationService) RegisterProfile(ctx context.Context, user domain.User, profile domain.Profile) (err error) {
	defer func() { metrics.ObserveOperation("user.register_profile", err) }()

	if user.IsRegistered() {
		return domain.Conflict("User already registered")
	}
	if profile, err = normalizeProfile(user, profile); err != nil {
		return err
	}

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	if err = part.Users().UpdateProfile(ctx, user.ID, profile); err != nil {
		return fmt.Errorf("Users.UpdateProfile -> %w", err)
	}

	return nil
}

func (s *RegistrationService) ChangeDetails(ctx context.Context, user domain.User, profile domain.Profile) (err error) {
	defer func() { metrics.ObserveOperation("user.change_details", err) }()

	if !user.IsRegistered() {
		return domain.Conflict("User profile is not registered yet")
	}
	if profile, err = normalizeProfile(user, profile); err != nil {
		return err
	}

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	if err = part.Users().UpdateProfile(ctx, user.ID, profile); err != nil {
		return fmt.Errorf("Users.UpdateProfile -> %w", err)
	}

	return nil
}

// RegisterForEvent writes the user's registration entry, then the event's index.
func (s *RegistrationService) RegisterForEvent(ctx context.Context, user domain.User, eventID string) (err error) {
	defer func() { metrics.ObserveOperation("event.register", err) }()

	if !user.IsRegistered() {
		return domain.Conflict("Complete your profile before registering for events")
	}

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return err
	}

	_, inDetail := user.Registration(event.ID)
	if inDetail || event.HasUser(user.ID) {
		return domain.Conflict("User already registered for this event")
	}
	if deadline, ok := event.Deadline(); ok && s.sessions.Now().After(deadline) {
		return domain.Deadline("Registration for this event has closed")
	}

	err = part.Users().PushRegistration(ctx, user.ID, domain.Registration{
		EventID:      event.ID,
		RegisteredOn: s.sessions.Now().UTC(),
	})
	if errors.Is(err, repository.ErrAlreadyRegistered) {
		return domain.Conflict("User already registered for this event")
	}
	if err != nil {
		return fmt.Errorf("Users.PushRegistration -> %w", err)
	}

	if err = part.Events().AddRegisteredUser(ctx, event.ID, user.ID); err != nil {
		return fmt.Errorf("Events.AddRegisteredUser -> %w", err)
	}

	return nil
}

// UnregisterFromEvent removes the registration entry, then the index entry.
// Team membership for the event is left untouched.
func (s *RegistrationService) UnregisterFromEvent(ctx context.Context, user domain.User, eventID string) (err error) {
	defer func() { metrics.ObserveOperation("event.unregister", err) }()

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return err
	}

	reg, inDetail := user.Registration(event.ID)
	if !inDetail && !event.HasUser(user.ID) {
		return domain.NotFound("User is not registered for this event")
	}
	if reg.TeamID != "" {
		zap.L().Warn("unregistering user who is still on a team",
			zap.String("session", part.Session().String()),
			zap.String("event_id", event.ID),
			zap.String("team_id", reg.TeamID),
			zap.String("user_id", user.ID),
		)
	}

	if err = part.Users().PullRegistration(ctx, user.ID, event.ID); err != nil {
		return fmt.Errorf("Users.PullRegistration -> %w", err)
	}
	if err = part.Events().RemoveRegisteredUser(ctx, event.ID, user.ID); err != nil {
		return fmt.Errorf("Events.RemoveRegisteredUser -> %w", err)
	}

	return nil
}
