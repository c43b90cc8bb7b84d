package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

// EventView is the public rendition of an event. Index sets and remarks are hidden.
type EventView struct {
	ID                 string              `json:"event_id"`
	Name               string              `json:"event_name"`
	Description        *string             `json:"event_description"`
	Date               *time.Time          `json:"event_date"`
	Time               *string             `json:"event_time"`
	Duration           *string             `json:"event_duration"`
	LastDateToRegister *time.Time          `json:"last_date_to_register"`
	Capacity           *int                `json:"event_capacity"`
	Type               *domain.EventType   `json:"event_type"`
	TeamAllowed        bool                `json:"event_team_allowed"`
	TeamSize           int                 `json:"event_team_size"`
	Venue              *string             `json:"venue"`
	PersonInCharge     *string             `json:"person_incharge"`
	Status             *domain.EventStatus `json:"event_status"`
	Prizes             *string             `json:"event_prizes"`
	ThumbnailID        *string             `json:"event_thumbnail_id"`
}

func NewEventView(e domain.Event) EventView {
	return EventView{
		ID:                 e.ID,
		Name:               e.Name,
		Description:        e.Description,
		Date:               e.Date,
		Time:               e.Time,
		Duration:           e.Duration,
		LastDateToRegister: e.LastDateToRegister,
		Capacity:           e.Capacity,
		Type:               e.Type,
		TeamAllowed:        e.TeamAllowed,
		TeamSize:           e.TeamSize,
		Venue:              e.Venue,
		PersonInCharge:     e.PersonInCharge,
		Status:             e.Status,
		Prizes:             e.Prizes,
		ThumbnailID:        e.ThumbnailID,
	}
}

func eventViews(events []domain.Event) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventView(e))
	}

	return out
}

// TeamRole labels the caller's position in a team.
type TeamRole string

const (
	RoleLeader TeamRole = "leader"
	RoleMember TeamRole = "member"
)

func roleIn(team domain.Team, userID string) TeamRole {
	if team.IsLeader(userID) {
		return RoleLeader
	}

	return RoleMember
}

type RegistrationView struct {
	EventID      string     `json:"event_id"`
	EventName    *string    `json:"event_name"`
	RegisteredOn time.Time  `json:"registered_for_event_on"`
	TeamID       *string    `json:"team_id"`
	TeamName     *string    `json:"team_name"`
	TeamCreated  *time.Time `json:"team_created_on"`
	Role         *TeamRole  `json:"role"`
	Remark       *string    `json:"remark,omitempty"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TeamView struct {
	Code        string    `json:"team_code"`
	Name        string    `json:"team_name"`
	EventName   string    `json:"event_name"`
	LeaderName  string    `json:"leader_name"`
	LeaderEmail string    `json:"leader_email"`
	CreatedOn   time.Time `json:"team_created_on"`
	Members     []Contact `json:"members"`
}

// UserService serves the read side of the user tier.
type UserService struct {
	store    repository.Store
	sessions Sessions
}

func NewUserService(store repository.Store, sessions Sessions) *UserService {
	return &UserService{
		store:    store,
		sessions: sessions,
	}
}

// Profile returns the completed profile, or a stub holding only the email.
func (s *UserService) Profile(user domain.User) domain.Profile {
	if user.Profile == nil {
		return domain.Profile{Email: user.Email}
	}

	return *user.Profile
}

// MyRegistrations joins the user's registrations with event and team names.
func (s *UserService) MyRegistrations(ctx context.Context, user domain.User) ([]RegistrationView, error) {
	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return nil, err
	}

	return enrichRegistrations(ctx, part, user)
}

// enrichRegistrations resolves names by id. A dangling reference leaves its
// fields nil instead of failing the view.
func enrichRegistrations(ctx context.Context, part repository.Partition, user domain.User) ([]RegistrationView, error) {
	eventIDs := make([]string, 0, len(user.RegisteredEvents))
	teamIDs := make([]string, 0, len(user.RegisteredEvents))
	for _, r := range user.RegisteredEvents {
		eventIDs = append(eventIDs, r.EventID)
		if r.TeamID != "" {
			teamIDs = append(teamIDs, r.TeamID)
		}
	}

	events, err := part.Events().FindMany(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("Events.FindMany -> %w", err)
	}
	teams, err := part.Teams().FindMany(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("Teams.FindMany -> %w", err)
	}
	eventByID := indexBy(events, func(e domain.Event) string { return e.ID })
	teamByID := indexBy(teams, func(t domain.Team) string { return t.ID })

	out := make([]RegistrationView, 0, len(user.RegisteredEvents))
	for _, r := range user.RegisteredEvents {
		v := RegistrationView{
			EventID:      r.EventID,
			RegisteredOn: r.RegisteredOn,
			Remark:       r.Remark,
		}
		if e, ok := eventByID[r.EventID]; ok {
			v.EventName = &e.Name
		}
		if r.TeamID != "" {
			teamID := r.TeamID
			v.TeamID = &teamID
			if t, ok := teamByID[r.TeamID]; ok {
				role := roleIn(t, user.ID)
				v.TeamName = &t.Name
				v.TeamCreated = &t.RegisteredOn
				v.Role = &role
			}
		}
		out = append(out, v)
	}

	return out, nil
}

// RegisteredEvent returns an event the user is registered for.
func (s *UserService) RegisteredEvent(ctx context.Context, user domain.User, eventID string) (EventView, error) {
	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return EventView{}, err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return EventView{}, err
	}
	if _, ok := user.Registration(event.ID); !ok && !event.HasUser(user.ID) {
		return EventView{}, domain.NotFound("User is not registered for this event")
	}

	return NewEventView(event), nil
}

// MyTeam renders a team the user leads or belongs to.
func (s *UserService) MyTeam(ctx context.Context, user domain.User, teamID string) (TeamView, error) {
	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return TeamView{}, err
	}
	team, err := findTeam(ctx, part, teamID)
	if err != nil {
		return TeamView{}, err
	}
	if !team.IsLeader(user.ID) && !team.HasMember(user.ID) {
		return TeamView{}, domain.Forbidden("User is not part of this team")
	}

	return teamView(ctx, part, team)
}

func teamView(ctx context.Context, part repository.Partition, team domain.Team) (TeamView, error) {
	v := TeamView{
		Code:      team.Code,
		Name:      team.Name,
		CreatedOn: team.RegisteredOn,
		Members:   []Contact{},
	}

	if event, err := part.Events().FindByID(ctx, team.EventID); err == nil {
		v.EventName = event.Name
	} else if !isNotFound(err) {
		return TeamView{}, fmt.Errorf("Events.FindByID -> %w", err)
	}

	users, err := part.Users().FindMany(ctx, append([]string{team.LeaderID}, team.Members...))
	if err != nil {
		return TeamView{}, fmt.Errorf("Users.FindMany -> %w", err)
	}
	byID := indexBy(users, func(u domain.User) string { return u.ID })
	if leader, ok := byID[team.LeaderID]; ok {
		v.LeaderName = leader.Name()
		v.LeaderEmail = leader.Email
	}
	for _, id := range team.Members {
		if m, ok := byID[id]; ok {
			v.Members = append(v.Members, Contact{Name: m.Name(), Email: m.Email})
		}
	}

	return v, nil
}

// CurrentEvents lists the events of the current session.
func (s *UserService) CurrentEvents(ctx context.Context) ([]EventView, error) {
	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return nil, err
	}
	events, err := part.Events().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("Events.List -> %w", err)
	}

	return eventViews(events), nil
}

// ArchiveEvents lists events of every session, keyed by session.
func (s *UserService) ArchiveEvents(ctx context.Context) (map[string][]EventView, error) {
	perSession, err := fanOut(ctx, s.store, "archive.events", func(ctx context.Context, part repository.Partition) ([]EventView, error) {
		events, err := part.Events().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("Events.List -> %w", err)
		}
		return eventViews(events), nil
	})
	if err != nil {
		return nil, err
	}

	return bySession(perSession), nil
}

// Image loads a thumbnail from the current session, or from year when set.
func (s *UserService) Image(ctx context.Context, year, blobID string) (domain.Blob, error) {
	var (
		part repository.Partition
		err  error
	)
	if year == "" {
		part, err = currentPartition(ctx, s.store, s.sessions)
	} else {
		part, err = historicalPartition(ctx, s.store, s.sessions, year)
	}
	if err != nil {
		return domain.Blob{}, err
	}

	blob, err := part.Blobs().Get(ctx, blobID)
	if err != nil {
		return domain.Blob{}, translate(err, "Blobs.Get", repository.ErrBlobNotFound, domain.NotFound("Image not found"))
	}
	if blob.ContentType == "" {
		blob.ContentType = "image/jpeg"
	}

	return blob, nil
}

func indexBy[T any](items []T, key func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, it := range items {
		out[key(it)] = it
	}

	return out
}
