package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/metrics"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

// RemarkService attaches administrative annotations in the current session.
// Attaching writes the annotated record first and the event's tracking set second.
type RemarkService struct {
	store    repository.Store
	sessions Sessions
	identity *IdentityService
}

func NewRemarkService(store repository.Store, sessions Sessions, identity *IdentityService) *RemarkService {
	return &RemarkService{
		store:    store,
		sessions: sessions,
		identity: identity,
	}
}

func cleanRemark(remark string) (string, error) {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		return "", domain.InvalidInput("remark cannot be empty")
	}

	return remark, nil
}

// registrant loads the user and event and checks the user is registered for it.
func (s *RemarkService) registrant(ctx context.Context, eventID string, who Key) (repository.Partition, domain.User, domain.Event, error) {
	user, err := s.identity.User(ctx, who)
	if err != nil {
		return nil, domain.User{}, domain.Event{}, err
	}
	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return nil, domain.User{}, domain.Event{}, err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return nil, domain.User{}, domain.Event{}, err
	}
	if _, ok := user.Registration(event.ID); !ok {
		return nil, domain.User{}, domain.Event{}, domain.NotFound("User is not registered for this event")
	}

	return part, user, event, nil
}

func (s *RemarkService) AttachUser(ctx context.Context, eventID string, who Key, remark string) (err error) {
	defer func() { metrics.ObserveOperation("remark.user.attach", err) }()

	if remark, err = cleanRemark(remark); err != nil {
		return err
	}
	part, user, event, err := s.registrant(ctx, eventID, who)
	if err != nil {
		return err
	}

	if err = part.Users().SetRegistrationRemark(ctx, user.ID, event.ID, &remark); err != nil {
		return fmt.Errorf("Users.SetRegistrationRemark -> %w", err)
	}
	if err = part.Events().AddRemarkedUser(ctx, event.ID, user.ID); err != nil {
		return fmt.Errorf("Events.AddRemarkedUser -> %w", err)
	}

	return nil
}

func (s *RemarkService) DetachUser(ctx context.Context, eventID string, who Key) (err error) {
	defer func() { metrics.ObserveOperation("remark.user.detach", err) }()

	part, user, event, err := s.registrant(ctx, eventID, who)
	if err != nil {
		return err
	}
	reg, _ := user.Registration(event.ID)
	if reg.Remark == nil && !event.HasRemarkedUser(user.ID) {
		return domain.NotFound("No remark for this user yet for this event")
	}

	if err = part.Users().SetRegistrationRemark(ctx, user.ID, event.ID, nil); err != nil {
		return fmt.Errorf("Users.SetRegistrationRemark -> %w", err)
	}
	if err = part.Events().RemoveRemarkedUser(ctx, event.ID, user.ID); err != nil {
		return fmt.Errorf("Events.RemoveRemarkedUser -> %w", err)
	}

	return nil
}

func (s *RemarkService) AttachEvent(ctx context.Context, eventID, remark string) (err error) {
	defer func() { metrics.ObserveOperation("remark.event.attach", err) }()

	if remark, err = cleanRemark(remark); err != nil {
		return err
	}
	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return err
	}

	if err = part.Events().SetRemark(ctx, event.ID, &remark); err != nil {
		return translate(err, "Events.SetRemark", repository.ErrEventNotFound, domain.NotFound("Event not found"))
	}

	return nil
}

func (s *RemarkService) DetachEvent(ctx context.Context, eventID string) (err error) {
	defer func() { metrics.ObserveOperation("remark.event.detach", err) }()

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return err
	}
	if event.Remark == nil {
		return domain.NotFound("There is no remark for this event yet")
	}

	if err = part.Events().SetRemark(ctx, event.ID, nil); err != nil {
		return translate(err, "Events.SetRemark", repository.ErrEventNotFound, domain.NotFound("Event not found"))
	}

	return nil
}

func (s *RemarkService) AttachTeam(ctx context.Context, teamID, remark string) (err error) {
	defer func() { metrics.ObserveOperation("remark.team.attach", err) }()

	if remark, err = cleanRemark(remark); err != nil {
		return err
	}
	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	team, err := findTeam(ctx, part, teamID)
	if err != nil {
		return err
	}

	if err = part.Teams().SetRemark(ctx, team.ID, &remark); err != nil {
		return translate(err, "Teams.SetRemark", repository.ErrTeamNotFound, domain.NotFound("Team not found"))
	}
	if err = part.Events().AddRemarkedTeam(ctx, team.EventID, team.ID); err != nil {
		return fmt.Errorf("Events.AddRemarkedTeam -> %w", err)
	}

	return nil
}

func (s *RemarkService) DetachTeam(ctx context.Context, teamID string) (err error) {
	defer func() { metrics.ObserveOperation("remark.team.detach", err) }()

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	team, err := findTeam(ctx, part, teamID)
	if err != nil {
		return err
	}
	if team.Remark == nil {
		return domain.NotFound("There is no remark for this team yet")
	}

	if err = part.Teams().SetRemark(ctx, team.ID, nil); err != nil {
		return translate(err, "Teams.SetRemark", repository.ErrTeamNotFound, domain.NotFound("Team not found"))
	}
	if err = part.Events().RemoveRemarkedTeam(ctx, team.EventID, team.ID); err != nil {
		return fmt.Errorf("Events.RemoveRemarkedTeam -> %w", err)
	}

	return nil
}
