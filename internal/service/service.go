package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

var (
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrEventNotFound   = repository.ErrEventNotFound
	ErrTeamNotFound    = repository.ErrTeamNotFound
	ErrAccountNotFound = repository.ErrAccountNotFound
	ErrBlobNotFound    = repository.ErrBlobNotFound
)

// Sessions resolves the partition a request operates on.
type Sessions interface {
	Current() domain.SessionID
	Now() time.Time
	Validate(ctx context.Context, candidate string) (domain.SessionID, error)
	ValidateAdmins(ctx context.Context, candidate string) (domain.SessionID, error)
}

func currentPartition(ctx context.Context, store repository.Store, sessions Sessions) (repository.Partition, error) {
	part, err := store.Partition(ctx, sessions.Current())
	if err != nil {
		return nil, fmt.Errorf("store.Partition -> %w", err)
	}

	return part, nil
}

func historicalPartition(ctx context.Context, store repository.Store, sessions Sessions, year string) (repository.Partition, error) {
	id, err := sessions.Validate(ctx, year)
	if err != nil {
		return nil, err
	}

	part, err := store.Partition(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.Partition -> %w", err)
	}

	return part, nil
}

func checkID(id, what string) error {
	if !objectid.IsValid(id) {
		return domain.InvalidInput("Invalid %s", what)
	}

	return nil
}

// translate maps a storage sentinel onto a caller-facing error.
func translate(err error, op string, sentinel error, mapped *domain.Error) error {
	if errors.Is(err, sentinel) {
		return mapped
	}

	return fmt.Errorf("%s -> %w", op, err)
}

func findEvent(ctx context.Context, part repository.Partition, eventID string) (domain.Event, error) {
	if err := checkID(eventID, "event_id"); err != nil {
		return domain.Event{}, err
	}

	event, err := part.Events().FindByID(ctx, eventID)
	if err != nil {
		return domain.Event{}, translate(err, "Events.FindByID", repository.ErrEventNotFound, domain.NotFound("Event not found"))
	}

	return event, nil
}

func findTeam(ctx context.Context, part repository.Partition, teamID string) (domain.Team, error) {
	if err := checkID(teamID, "team_id"); err != nil {
		return domain.Team{}, err
	}

	team, err := part.Teams().FindByID(ctx, teamID)
	if err != nil {
		return domain.Team{}, translate(err, "Teams.FindByID", repository.ErrTeamNotFound, domain.NotFound("Team not found"))
	}

	return team, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrUserNotFound) ||
		errors.Is(err, repository.ErrEventNotFound) ||
		errors.Is(err, repository.ErrTeamNotFound)
}
