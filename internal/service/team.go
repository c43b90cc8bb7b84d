package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/metrics"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

const (
	teamCodeLength   = 5
	teamCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// RandomTeamCode draws a join code from uppercase letters and digits.
func RandomTeamCode() string {
	var b strings.Builder
	for range teamCodeLength {
		b.WriteByte(teamCodeAlphabet[rand.IntN(len(teamCodeAlphabet))])
	}

	return b.String()
}

// NormalizeTeamName lower-cases and collapses whitespace.
func NormalizeTeamName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

type TeamOption func(*TeamService)

// WithCodeGenerator replaces the random join-code source.
func WithCodeGenerator(gen func() string) TeamOption {
	return func(s *TeamService) {
		s.newCode = gen
	}
}

type TeamService struct {
	store    repository.Store
	sessions Sessions
	newCode  func() string
}

func NewTeamService(store repository.Store, sessions Sessions, opts ...TeamOption) *TeamService {
	s := &TeamService{
		store:    store,
		sessions: sessions,
		newCode:  RandomTeamCode,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// teamContext loads the event and checks the preconditions every team operation shares.
func (s *TeamService) teamContext(ctx context.Context, user domain.User, eventID string) (repository.Partition, domain.Event, domain.Registration, error) {
	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return nil, domain.Event{}, domain.Registration{}, err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return nil, domain.Event{}, domain.Registration{}, err
	}
	if !event.TeamAllowed {
		return nil, domain.Event{}, domain.Registration{}, domain.Conflict("Team registration is not allowed for this event")
	}
	if event.IsCompleted() {
		return nil, domain.Event{}, domain.Registration{}, domain.Conflict("Event has been completed")
	}
	reg, ok := user.Registration(event.ID)
	if !ok {
		return nil, domain.Event{}, domain.Registration{}, domain.NotFound("User is not registered for this event")
	}

	return part, event, reg, nil
}

// Create registers a team led by user. Members are contact details only; joiners
// are added by code.
func (s *TeamService) Create(ctx context.Context, user domain.User, eventID, teamName string, members []domain.MemberDetail) (team domain.Team, err error) {
	defer func() { metrics.ObserveOperation("team.create", err) }()

	part, event, reg, err := s.teamContext(ctx, user, eventID)
	if err != nil {
		return domain.Team{}, err
	}
	if reg.TeamID != "" {
		return domain.Team{}, domain.Conflict("User is already part of a team for this event")
	}

	name := NormalizeTeamName(teamName)
	if name == "" {
		return domain.Team{}, domain.InvalidInput("Team name is required")
	}
	if _, err = part.Teams().FindByName(ctx, event.ID, name); err == nil {
		return domain.Team{}, domain.Conflict("Team name already taken")
	} else if !errors.Is(err, repository.ErrTeamNotFound) {
		return domain.Team{}, fmt.Errorf("Teams.FindByName -> %w", err)
	}
	if len(members) > event.MaxMembers() {
		return domain.Team{}, domain.Conflict("Team members exceed the limit of %d members (+1 leader)", event.MaxMembers())
	}

	team = domain.Team{
		ID:            objectid.New(),
		EventID:       event.ID,
		Name:          name,
		LeaderID:      user.ID,
		Members:       []string{},
		MemberDetails: members,
		RegisteredOn:  s.sessions.Now().UTC(),
	}
	if team, err = s.insertWithUniqueCode(ctx, part, team); err != nil {
		return domain.Team{}, err
	}

	if err = part.Users().SetRegistrationTeam(ctx, user.ID, event.ID, team.ID); err != nil {
		return domain.Team{}, fmt.Errorf("Users.SetRegistrationTeam -> %w", err)
	}
	if err = part.Events().AddRegisteredTeam(ctx, event.ID, team.ID); err != nil {
		return domain.Team{}, fmt.Errorf("Events.AddRegisteredTeam -> %w", err)
	}

	return team, nil
}

// insertWithUniqueCode samples codes until one is free for the event. A code lost
// to a concurrent insert is detected by the unique constraint and resampled.
func (s *TeamService) insertWithUniqueCode(ctx context.Context, part repository.Partition, team domain.Team) (domain.Team, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Team{}, err
		}

		code := s.newCode()
		taken, err := part.Teams().CodeExists(ctx, team.EventID, code)
		if err != nil {
			return domain.Team{}, fmt.Errorf("Teams.CodeExists -> %w", err)
		}
		if taken {
			continue
		}

		team.Code = code
		created, err := part.Teams().Insert(ctx, team)
		switch {
		case errors.Is(err, repository.ErrTeamCodeTaken):
			zap.L().Debug("team code collision", zap.String("event_id", team.EventID), zap.String("code", code))
			continue
		case errors.Is(err, repository.ErrTeamNameTaken):
			return domain.Team{}, domain.Conflict("Team name already taken")
		case err != nil:
			return domain.Team{}, fmt.Errorf("Teams.Insert -> %w", err)
		}

		return created, nil
	}
}

// Join adds user to the team holding code for the event.
func (s *TeamService) Join(ctx context.Context, user domain.User, eventID, code string) (team domain.Team, err error) {
	defer func() { metrics.ObserveOperation("team.join", err) }()

	part, event, reg, err := s.teamContext(ctx, user, eventID)
	if err != nil {
		return domain.Team{}, err
	}
	if reg.TeamID != "" {
		return domain.Team{}, domain.Conflict("User is already part of a team for this event")
	}

	team, err = part.Teams().FindByCode(ctx, event.ID, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return domain.Team{}, translate(err, "Teams.FindByCode", repository.ErrTeamNotFound, domain.NotFound("Invalid team code"))
	}
	if team.IsLeader(user.ID) {
		return domain.Team{}, domain.Conflict("User is team leader")
	}
	if team.HasMember(user.ID) {
		return domain.Team{}, domain.Conflict("User already joined this team")
	}
	if len(team.Members) >= event.MaxMembers() {
		return domain.Team{}, domain.Conflict("Team has reached max capacity")
	}

	err = part.Teams().AddMember(ctx, team.ID, user.ID, event.MaxMembers())
	switch {
	case errors.Is(err, repository.ErrTeamFull):
		return domain.Team{}, domain.Conflict("Team has reached max capacity")
	case errors.Is(err, repository.ErrAlreadyMember):
		return domain.Team{}, domain.Conflict("User already joined this team")
	case errors.Is(err, repository.ErrTeamNotFound):
		return domain.Team{}, domain.NotFound("Invalid team code")
	case err != nil:
		return domain.Team{}, fmt.Errorf("Teams.AddMember -> %w", err)
	}

	if err = part.Users().SetRegistrationTeam(ctx, user.ID, event.ID, team.ID); err != nil {
		return domain.Team{}, fmt.Errorf("Users.SetRegistrationTeam -> %w", err)
	}
	team.Members = append(team.Members, user.ID)

	return team, nil
}

func (s *TeamService) findByName(ctx context.Context, part repository.Partition, eventID, teamName string) (domain.Team, error) {
	team, err := part.Teams().FindByName(ctx, eventID, NormalizeTeamName(teamName))
	if err != nil {
		return domain.Team{}, translate(err, "Teams.FindByName", repository.ErrTeamNotFound, domain.NotFound("No such team for this event"))
	}

	return team, nil
}

// Leave removes a non-leader member from the named team.
func (s *TeamService) Leave(ctx context.Context, user domain.User, eventID, teamName string) (err error) {
	defer func() { metrics.ObserveOperation("team.leave", err) }()

	part, event, _, err := s.teamContext(ctx, user, eventID)
	if err != nil {
		return err
	}
	team, err := s.findByName(ctx, part, event.ID, teamName)
	if err != nil {
		return err
	}
	if team.IsLeader(user.ID) {
		return domain.Conflict("User is team leader, delete the team instead")
	}
	if !team.HasMember(user.ID) {
		return domain.NotFound("User is not a member of this team")
	}

	if err = part.Teams().RemoveMember(ctx, team.ID, user.ID); err != nil {
		return fmt.Errorf("Teams.RemoveMember -> %w", err)
	}
	if err = part.Users().SetRegistrationTeam(ctx, user.ID, event.ID, ""); err != nil {
		return fmt.Errorf("Users.SetRegistrationTeam -> %w", err)
	}

	return nil
}

// Delete dissolves the named team. Only its leader may do so.
func (s *TeamService) Delete(ctx context.Context, user domain.User, eventID, teamName string) (err error) {
	defer func() { metrics.ObserveOperation("team.delete", err) }()

	part, event, _, err := s.teamContext(ctx, user, eventID)
	if err != nil {
		return err
	}
	team, err := s.findByName(ctx, part, event.ID, teamName)
	if err != nil {
		return err
	}
	if !team.IsLeader(user.ID) {
		return domain.Forbidden("User is not team leader")
	}

	for _, id := range append([]string{team.LeaderID}, team.Members...) {
		if err = part.Users().SetRegistrationTeam(ctx, id, event.ID, ""); err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("Users.SetRegistrationTeam %s -> %w", id, err)
		}
	}
	if err = part.Teams().Delete(ctx, team.ID); err != nil {
		return translate(err, "Teams.Delete", repository.ErrTeamNotFound, domain.NotFound("No such team for this event"))
	}
	if err = part.Events().RemoveRegisteredTeam(ctx, event.ID, team.ID); err != nil {
		return fmt.Errorf("Events.RemoveRegisteredTeam -> %w", err)
	}
	if err = part.Events().RemoveRemarkedTeam(ctx, event.ID, team.ID); err != nil {
		return fmt.Errorf("Events.RemoveRemarkedTeam -> %w", err)
	}

	return nil
}
