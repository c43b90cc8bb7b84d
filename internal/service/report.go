package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/metrics"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

// partitionConcurrency bounds how many sessions a report reads at once.
const partitionConcurrency = 4

// Page is a counted list.
type Page[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}

func newPage[T any](data []T) Page[T] {
	if data == nil {
		data = []T{}
	}

	return Page[T]{Count: len(data), Data: data}
}

// SessionResult is the outcome of a per-session computation.
type SessionResult[T any] struct {
	Session domain.SessionID
	Value   T
}

// fanOut runs fn against every partition. A partition that fails is logged and
// skipped; only failing to enumerate partitions or a cancelled ctx is an error.
func fanOut[T any](ctx context.Context, store repository.Store, op string, fn func(context.Context, repository.Partition) (T, error)) ([]SessionResult[T], error) {
	ids, err := store.Partitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.Partitions -> %w", err)
	}

	return fanOutSessions(ctx, ids, op, func(ctx context.Context, id domain.SessionID) (T, error) {
		part, err := store.Partition(ctx, id)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx, part)
	})
}

// fanOutSessions runs fn for each id with bounded concurrency, skipping the
// sessions it fails on. Results keep the order of ids.
func fanOutSessions[T any](ctx context.Context, ids []domain.SessionID, op string, fn func(context.Context, domain.SessionID) (T, error)) ([]SessionResult[T], error) {
	results := make([]*SessionResult[T], len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(partitionConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			v, err := fn(gctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				zap.L().Warn("skipping partition", zap.String("op", op), zap.String("session", id.String()), zap.Error(err))
				metrics.PartitionsSkipped.Inc()
				return nil
			}
			results[i] = &SessionResult[T]{Session: id, Value: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]SessionResult[T], 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}

	return out, nil
}

func bySession[T any](results []SessionResult[T]) map[string]T {
	out := make(map[string]T, len(results))
	for _, r := range results {
		out[r.Session.String()] = r.Value
	}

	return out
}

type UserSummary struct {
	ID      string `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Events  int    `json:"no_of_events"`
	Teams   int    `json:"no_of_teams"`
	Remarks int    `json:"no_of_remarks"`
}

type TeamSummary struct {
	ID          string  `json:"team_id"`
	Name        string  `json:"team_name"`
	EventName   *string `json:"event_name"`
	LeaderName  *string `json:"leader_name"`
	LeaderEmail *string `json:"leader_email"`
	Members     int     `json:"number_of_members"`
	Remark      *string `json:"remark"`
}

type EventSummary struct {
	ID              string     `json:"event_id"`
	Name            string     `json:"event_name"`
	Date            *time.Time `json:"event_date"`
	RegisteredUsers int        `json:"no_of_registered_user"`
	RegisteredTeams int        `json:"no_of_registered_team"`
	RemarkedUsers   int        `json:"no_of_remarked_user"`
	RemarkedTeams   int        `json:"no_of_remarked_team"`
	Remark          *string    `json:"remark"`
}

type UserDetail struct {
	ID               string             `json:"user_id"`
	Email            string             `json:"email"`
	CreatedOn        time.Time          `json:"created_on"`
	Profile          *domain.Profile    `json:"profile"`
	RegisteredEvents []RegistrationView `json:"registered_event"`
}

type MemberRef struct {
	ID    string `json:"member_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TeamDetail struct {
	ID        string                `json:"team_id"`
	Name      string                `json:"team_name"`
	Code      string                `json:"team_code"`
	Leader    MemberRef             `json:"leader"`
	EventID   string                `json:"event_id"`
	EventName *string               `json:"event_name"`
	Members   []MemberRef           `json:"members"`
	Details   []domain.MemberDetail `json:"member_details"`
	CreatedOn time.Time             `json:"registered_on"`
	Remark    *string               `json:"remark"`
}

type RegisteredUserRow struct {
	ID           string     `json:"user_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	RegisteredOn *time.Time `json:"registered_on"`
	TeamID       *string    `json:"team_id"`
	Remark       *string    `json:"remark"`
}

type RegisteredTeamRow struct {
	ID           string    `json:"team_id"`
	Name         string    `json:"team_name"`
	RegisteredOn time.Time `json:"registered_on"`
	Remark       *string   `json:"remark"`
}

type EventDetail struct {
	EventView
	Remark          *string             `json:"remark"`
	CreatedOn       time.Time           `json:"created_on"`
	RegisteredUsers []RegisteredUserRow `json:"registered_user"`
	RegisteredTeams []RegisteredTeamRow `json:"registered_team"`
}

// ReportService is the read-only cross-session tier.
type ReportService struct {
	store    repository.Store
	sessions Sessions
}

func NewReportService(store repository.Store, sessions Sessions) *ReportService {
	return &ReportService{
		store:    store,
		sessions: sessions,
	}
}

func (s *ReportService) AllUsers(ctx context.Context) (map[string]Page[UserSummary], error) {
	results, err := fanOut(ctx, s.store, "report.users", userSummaries)
	if err != nil {
		return nil, err
	}

	return bySession(results), nil
}

func (s *ReportService) AllTeams(ctx context.Context) (map[string]Page[TeamSummary], error) {
	results, err := fanOut(ctx, s.store, "report.teams", teamSummaries)
	if err != nil {
		return nil, err
	}

	return bySession(results), nil
}

func (s *ReportService) AllEvents(ctx context.Context) (map[string]Page[EventSummary], error) {
	results, err := fanOut(ctx, s.store, "report.events", eventSummaries)
	if err != nil {
		return nil, err
	}

	return bySession(results), nil
}

func (s *ReportService) Users(ctx context.Context, year string) (Page[UserSummary], error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return Page[UserSummary]{}, err
	}

	return userSummaries(ctx, part)
}

func (s *ReportService) Teams(ctx context.Context, year string) (Page[TeamSummary], error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return Page[TeamSummary]{}, err
	}

	return teamSummaries(ctx, part)
}

func (s *ReportService) Events(ctx context.Context, year string) (Page[EventSummary], error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return Page[EventSummary]{}, err
	}

	return eventSummaries(ctx, part)
}

func userSummaries(ctx context.Context, part repository.Partition) (Page[UserSummary], error) {
	users, err := part.Users().List(ctx)
	if err != nil {
		return Page[UserSummary]{}, fmt.Errorf("Users.List -> %w", err)
	}

	rows := make([]UserSummary, 0, len(users))
	for _, u := range users {
		row := UserSummary{ID: u.ID, Name: u.Name(), Email: u.Email, Events: len(u.RegisteredEvents)}
		for _, r := range u.RegisteredEvents {
			if r.TeamID != "" {
				row.Teams++
			}
			if r.Remark != nil {
				row.Remarks++
			}
		}
		rows = append(rows, row)
	}

	return newPage(rows), nil
}

func teamSummaries(ctx context.Context, part repository.Partition) (Page[TeamSummary], error) {
	teams, err := part.Teams().List(ctx)
	if err != nil {
		return Page[TeamSummary]{}, fmt.Errorf("Teams.List -> %w", err)
	}

	eventIDs := make([]string, 0, len(teams))
	leaderIDs := make([]string, 0, len(teams))
	for _, t := range teams {
		eventIDs = append(eventIDs, t.EventID)
		leaderIDs = append(leaderIDs, t.LeaderID)
	}
	events, err := part.Events().FindMany(ctx, eventIDs)
	if err != nil {
		return Page[TeamSummary]{}, fmt.Errorf("Events.FindMany -> %w", err)
	}
	leaders, err := part.Users().FindMany(ctx, leaderIDs)
	if err != nil {
		return Page[TeamSummary]{}, fmt.Errorf("Users.FindMany -> %w", err)
	}
	eventByID := indexBy(events, func(e domain.Event) string { return e.ID })
	leaderByID := indexBy(leaders, func(u domain.User) string { return u.ID })

	rows := make([]TeamSummary, 0, len(teams))
	for _, t := range teams {
		row := TeamSummary{ID: t.ID, Name: t.Name, Members: len(t.Members), Remark: t.Remark}
		if e, ok := eventByID[t.EventID]; ok {
			row.EventName = &e.Name
		}
		if l, ok := leaderByID[t.LeaderID]; ok {
			name := l.Name()
			row.LeaderName = &name
			row.LeaderEmail = &l.Email
		}
		rows = append(rows, row)
	}

	return newPage(rows), nil
}

func eventSummaries(ctx context.Context, part repository.Partition) (Page[EventSummary], error) {
	events, err := part.Events().List(ctx)
	if err != nil {
		return Page[EventSummary]{}, fmt.Errorf("Events.List -> %w", err)
	}

	rows := make([]EventSummary, 0, len(events))
	for _, e := range events {
		rows = append(rows, EventSummary{
			ID:              e.ID,
			Name:            e.Name,
			Date:            e.Date,
			RegisteredUsers: len(e.RegisteredUsers),
			RegisteredTeams: len(e.RegisteredTeams),
			RemarkedUsers:   len(e.RemarkedUsers),
			RemarkedTeams:   len(e.RemarkedTeams),
			Remark:          e.Remark,
		})
	}

	return newPage(rows), nil
}

// UserDetail resolves a user's registrations in a historical session.
func (s *ReportService) UserDetail(ctx context.Context, year, userID string) (UserDetail, error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return UserDetail{}, err
	}
	if err = checkID(userID, "user_id"); err != nil {
		return UserDetail{}, err
	}
	user, err := part.Users().FindByID(ctx, userID)
	if err != nil {
		return UserDetail{}, translate(err, "Users.FindByID", repository.ErrUserNotFound, domain.NotFound("User not found"))
	}

	regs, err := enrichRegistrations(ctx, part, user)
	if err != nil {
		return UserDetail{}, err
	}

	return UserDetail{
		ID:               user.ID,
		Email:            user.Email,
		CreatedOn:        user.CreatedOn,
		Profile:          user.Profile,
		RegisteredEvents: regs,
	}, nil
}

func (s *ReportService) TeamDetail(ctx context.Context, year, teamID string) (TeamDetail, error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return TeamDetail{}, err
	}
	team, err := findTeam(ctx, part, teamID)
	if err != nil {
		return TeamDetail{}, err
	}

	users, err := part.Users().FindMany(ctx, append([]string{team.LeaderID}, team.Members...))
	if err != nil {
		return TeamDetail{}, fmt.Errorf("Users.FindMany -> %w", err)
	}
	byID := indexBy(users, func(u domain.User) string { return u.ID })

	d := TeamDetail{
		ID:        team.ID,
		Name:      team.Name,
		Code:      team.Code,
		Leader:    MemberRef{ID: team.LeaderID},
		EventID:   team.EventID,
		Members:   []MemberRef{},
		Details:   team.MemberDetails,
		CreatedOn: team.RegisteredOn,
		Remark:    team.Remark,
	}
	if l, ok := byID[team.LeaderID]; ok {
		d.Leader.Name, d.Leader.Email = l.Name(), l.Email
	}
	for _, id := range team.Members {
		if m, ok := byID[id]; ok {
			d.Members = append(d.Members, MemberRef{ID: id, Name: m.Name(), Email: m.Email})
		}
	}
	if event, err := part.Events().FindByID(ctx, team.EventID); err == nil {
		d.EventName = &event.Name
	} else if !isNotFound(err) {
		return TeamDetail{}, fmt.Errorf("Events.FindByID -> %w", err)
	}

	return d, nil
}

// EventDetail resolves an event's index sets to user and team rows. Ids that no
// longer resolve are left out.
func (s *ReportService) EventDetail(ctx context.Context, year, eventID string) (EventDetail, error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return EventDetail{}, err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return EventDetail{}, err
	}

	users, err := part.Users().FindMany(ctx, event.RegisteredUsers)
	if err != nil {
		return EventDetail{}, fmt.Errorf("Users.FindMany -> %w", err)
	}
	teams, err := part.Teams().FindMany(ctx, event.RegisteredTeams)
	if err != nil {
		return EventDetail{}, fmt.Errorf("Teams.FindMany -> %w", err)
	}
	userByID := indexBy(users, func(u domain.User) string { return u.ID })
	teamByID := indexBy(teams, func(t domain.Team) string { return t.ID })

	d := EventDetail{
		EventView:       NewEventView(event),
		Remark:          event.Remark,
		CreatedOn:       event.CreatedOn,
		RegisteredUsers: []RegisteredUserRow{},
		RegisteredTeams: []RegisteredTeamRow{},
	}
	for _, id := range event.RegisteredUsers {
		u, ok := userByID[id]
		if !ok {
			continue
		}
		row := RegisteredUserRow{ID: u.ID, Email: u.Email, Name: u.Name()}
		if r, ok := u.Registration(event.ID); ok {
			row.RegisteredOn = &r.RegisteredOn
			row.Remark = r.Remark
			if r.TeamID != "" {
				row.TeamID = &r.TeamID
			}
		}
		d.RegisteredUsers = append(d.RegisteredUsers, row)
	}
	for _, id := range event.RegisteredTeams {
		if t, ok := teamByID[id]; ok {
			d.RegisteredTeams = append(d.RegisteredTeams, RegisteredTeamRow{ID: t.ID, Name: t.Name, RegisteredOn: t.RegisteredOn, Remark: t.Remark})
		}
	}

	return d, nil
}

// ArchiveImage loads a thumbnail from any existing session.
func (s *ReportService) ArchiveImage(ctx context.Context, year, blobID string) (domain.Blob, error) {
	part, err := historicalPartition(ctx, s.store, s.sessions, year)
	if err != nil {
		return domain.Blob{}, err
	}
	blob, err := part.Blobs().Get(ctx, blobID)
	if err != nil {
		return domain.Blob{}, translate(err, "Blobs.Get", repository.ErrBlobNotFound, domain.NotFound("Image not found"))
	}

	return blob, nil
}
