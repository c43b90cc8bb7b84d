package service

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

type FindingKind string

const (
	IndexedUserNotRegistered FindingKind = "indexed_user_not_registered"
	RegistrationNotIndexed   FindingKind = "registration_not_indexed"
	IndexedTeamMissing       FindingKind = "indexed_team_missing"
	TeamNotIndexed           FindingKind = "team_not_indexed"
	DanglingTeamRef          FindingKind = "dangling_team_ref"
	TeamEventMismatch        FindingKind = "team_event_mismatch"
	TeamOversize             FindingKind = "team_oversize"
	LeaderListedAsMember     FindingKind = "leader_listed_as_member"
	RegistrationOrphaned     FindingKind = "registration_for_missing_event"
	// MemberNotRegistered is a leader or member whose registration for the
	// team's event is gone or points at another team.
	MemberNotRegistered FindingKind = "member_not_registered"
)

type Finding struct {
	Kind    FindingKind `json:"kind"`
	EventID string      `json:"event_id,omitempty"`
	UserID  string      `json:"user_id,omitempty"`
	TeamID  string      `json:"team_id,omitempty"`
}

type AuditReport struct {
	Session  domain.SessionID `json:"session"`
	Findings []Finding        `json:"findings"`
	// Repaired counts the writes Repair issued.
	Repaired int `json:"repaired"`
}

func (r AuditReport) Clean() bool {
	return len(r.Findings) == 0
}

// AuditService checks the partition invariants offline. Repair treats the user
// and team tables as ground truth and rewrites the event index from them.
type AuditService struct {
	store    repository.Store
	sessions Sessions
}

func NewAuditService(store repository.Store, sessions Sessions) *AuditService {
	return &AuditService{
		store:    store,
		sessions: sessions,
	}
}

type snapshot struct {
	users  []domain.User
	events []domain.Event
	teams  []domain.Team

	userByID  map[string]domain.User
	eventByID map[string]domain.Event
	teamByID  map[string]domain.Team
}

func load(ctx context.Context, part repository.Partition) (snapshot, error) {
	users, err := part.Users().List(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("Users.List -> %w", err)
	}
	events, err := part.Events().List(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("Events.List -> %w", err)
	}
	teams, err := part.Teams().List(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("Teams.List -> %w", err)
	}

	return snapshot{
		users:     users,
		events:    events,
		teams:     teams,
		userByID:  indexBy(users, func(u domain.User) string { return u.ID }),
		eventByID: indexBy(events, func(e domain.Event) string { return e.ID }),
		teamByID:  indexBy(teams, func(t domain.Team) string { return t.ID }),
	}, nil
}

// danglingTeam reports whether a registration's team_id cannot be trusted.
func (s snapshot) danglingTeam(userID string, r domain.Registration) (FindingKind, bool) {
	t, ok := s.teamByID[r.TeamID]
	switch {
	case !ok:
		return DanglingTeamRef, true
	case t.EventID != r.EventID:
		return TeamEventMismatch, true
	case !t.IsLeader(userID) && !t.HasMember(userID):
		return DanglingTeamRef, true
	}

	return "", false
}

// onTeam reports whether userID's registration for t's event names t.
func (s snapshot) onTeam(userID string, t domain.Team) bool {
	u, ok := s.userByID[userID]
	if !ok {
		return false
	}
	r, ok := u.Registration(t.EventID)

	return ok && r.TeamID == t.ID
}

// expectedIndex derives an event's index sets from the detail tables. Existing
// order is kept for ids that survive.
func (s snapshot) expectedIndex(event domain.Event) ([]string, []string) {
	var want []string
	for _, u := range s.users {
		if _, ok := u.Registration(event.ID); ok {
			want = append(want, u.ID)
		}
	}
	users := ordered(event.RegisteredUsers, want)

	if !event.TeamAllowed {
		return users, nil
	}
	var teams []string
	for _, t := range s.teams {
		if t.EventID == event.ID {
			teams = append(teams, t.ID)
		}
	}

	return users, ordered(event.RegisteredTeams, teams)
}

func ordered(current, want []string) []string {
	out := make([]string, 0, len(want))
	for _, id := range current {
		if slices.Contains(want, id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	for _, id := range want {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}

	return out
}

func (s snapshot) findings() []Finding {
	fs := []Finding{}

	for _, e := range s.events {
		users, teams := s.expectedIndex(e)
		for _, id := range e.RegisteredUsers {
			if !slices.Contains(users, id) {
				fs = append(fs, Finding{Kind: IndexedUserNotRegistered, EventID: e.ID, UserID: id})
			}
		}
		for _, id := range users {
			if !e.HasUser(id) {
				fs = append(fs, Finding{Kind: RegistrationNotIndexed, EventID: e.ID, UserID: id})
			}
		}
		for _, id := range e.RegisteredTeams {
			if !slices.Contains(teams, id) {
				fs = append(fs, Finding{Kind: IndexedTeamMissing, EventID: e.ID, TeamID: id})
			}
		}
		for _, id := range teams {
			if !e.HasTeam(id) {
				fs = append(fs, Finding{Kind: TeamNotIndexed, EventID: e.ID, TeamID: id})
			}
		}
	}

	for _, u := range s.users {
		for _, r := range u.RegisteredEvents {
			if _, ok := s.eventByID[r.EventID]; !ok {
				fs = append(fs, Finding{Kind: RegistrationOrphaned, EventID: r.EventID, UserID: u.ID})
				continue
			}
			if r.TeamID == "" {
				continue
			}
			if kind, bad := s.danglingTeam(u.ID, r); bad {
				fs = append(fs, Finding{Kind: kind, EventID: r.EventID, UserID: u.ID, TeamID: r.TeamID})
			}
		}
	}

	for _, t := range s.teams {
		if t.HasMember(t.LeaderID) {
			fs = append(fs, Finding{Kind: LeaderListedAsMember, EventID: t.EventID, UserID: t.LeaderID, TeamID: t.ID})
		}
		if e, ok := s.eventByID[t.EventID]; ok && len(t.Members) > e.MaxMembers() {
			fs = append(fs, Finding{Kind: TeamOversize, EventID: t.EventID, TeamID: t.ID})
		}
		for _, id := range append([]string{t.LeaderID}, t.Members...) {
			if !s.onTeam(id, t) {
				fs = append(fs, Finding{Kind: MemberNotRegistered, EventID: t.EventID, UserID: id, TeamID: t.ID})
			}
		}
	}

	return fs
}

func (s *AuditService) Audit(ctx context.Context, year string) (AuditReport, error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return AuditReport{}, err
	}
	snap, err := load(ctx, part)
	if err != nil {
		return AuditReport{}, err
	}

	return AuditReport{Session: part.Session(), Findings: snap.findings()}, nil
}

// Repair clears dangling team references, then rewrites every event index that
// disagrees with the detail tables. The returned report lists what was found
// before repairing.
func (s *AuditService) Repair(ctx context.Context, year string) (AuditReport, error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return AuditReport{}, err
	}
	snap, err := load(ctx, part)
	if err != nil {
		return AuditReport{}, err
	}
	report := AuditReport{Session: part.Session(), Findings: snap.findings()}

	for _, u := range snap.users {
		for _, r := range u.RegisteredEvents {
			if r.TeamID == "" {
				continue
			}
			if _, bad := snap.danglingTeam(u.ID, r); !bad {
				continue
			}
			if err = part.Users().SetRegistrationTeam(ctx, u.ID, r.EventID, ""); err != nil {
				return report, fmt.Errorf("Users.SetRegistrationTeam -> %w", err)
			}
			report.Repaired++
		}
	}

	for _, e := range snap.events {
		users, teams := snap.expectedIndex(e)
		if slices.Equal(users, e.RegisteredUsers) && slices.Equal(teams, e.RegisteredTeams) && (teams == nil) == (e.RegisteredTeams == nil) {
			continue
		}
		if err = part.Events().ReplaceIndex(ctx, e.ID, users, teams); err != nil {
			return report, fmt.Errorf("Events.ReplaceIndex -> %w", err)
		}
		report.Repaired++
	}

	zap.L().Info("partition repaired",
		zap.String("session", part.Session().String()),
		zap.Int("findings", len(report.Findings)),
		zap.Int("writes", report.Repaired),
	)

	return report, nil
}
