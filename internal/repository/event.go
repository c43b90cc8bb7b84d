package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository/dao"
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id string) (dao.Event, error)
	FindMany(ctx context.Context, ids []string) ([]dao.Event, error)
	List(ctx context.Context) ([]dao.Event, error)
	Update(ctx context.Context, id string, columns map[string]any) error
	Delete(ctx context.Context, id string) error
	AddToSet(ctx context.Context, id, column, value string) error
	Pull(ctx context.Context, id, column, value string) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Insert(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindMany(ctx context.Context, ids []string) ([]domain.Event, error) {
	found, err := r.dao.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMany -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *EventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) error {
	if err := r.dao.Update(ctx, id, patchColumns(patch)); err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) addToSet(ctx context.Context, id, column, value string) error {
	if err := r.dao.AddToSet(ctx, id, column, value); err != nil {
		return fmt.Errorf("r.dao.AddToSet %s -> %w", column, err)
	}

	return nil
}

func (r *EventRepository) pull(ctx context.Context, id, column, value string) error {
	if err := r.dao.Pull(ctx, id, column, value); err != nil {
		return fmt.Errorf("r.dao.Pull %s -> %w", column, err)
	}

	return nil
}

func (r *EventRepository) AddRegisteredUser(ctx context.Context, id, userID string) error {
	return r.addToSet(ctx, id, "registered_user", userID)
}

func (r *EventRepository) RemoveRegisteredUser(ctx context.Context, id, userID string) error {
	return r.pull(ctx, id, "registered_user", userID)
}

func (r *EventRepository) AddRegisteredTeam(ctx context.Context, id, teamID string) error {
	return r.addToSet(ctx, id, "registered_team", teamID)
}

func (r *EventRepository) RemoveRegisteredTeam(ctx context.Context, id, teamID string) error {
	return r.pull(ctx, id, "registered_team", teamID)
}

func (r *EventRepository) AddRemarkedUser(ctx context.Context, id, userID string) error {
	return r.addToSet(ctx, id, "remarked_user", userID)
}

func (r *EventRepository) RemoveRemarkedUser(ctx context.Context, id, userID string) error {
	return r.pull(ctx, id, "remarked_user", userID)
}

func (r *EventRepository) AddRemarkedTeam(ctx context.Context, id, teamID string) error {
	return r.addToSet(ctx, id, "remarked_team", teamID)
}

func (r *EventRepository) RemoveRemarkedTeam(ctx context.Context, id, teamID string) error {
	return r.pull(ctx, id, "remarked_team", teamID)
}

func (r *EventRepository) SetRemark(ctx context.Context, id string, remark *string) error {
	if err := r.dao.Update(ctx, id, map[string]any{"remark": remark}); err != nil {
		return fmt.Errorf("r.dao.Update remark -> %w", err)
	}

	return nil
}

func (r *EventRepository) ReplaceIndex(ctx context.Context, id string, users, teams []string) error {
	columns := map[string]any{
		"registered_user": pq.StringArray(nonNil(users)),
		"registered_team": nil,
	}
	if teams != nil {
		columns["registered_team"] = pq.StringArray(teams)
	}

	if err := r.dao.Update(ctx, id, columns); err != nil {
		return fmt.Errorf("r.dao.Update index -> %w", err)
	}

	return nil
}

func patchColumns(p domain.EventPatch) map[string]any {
	columns := map[string]any{}
	set := func(column string, present bool, value any) {
		if present {
			columns[column] = value
		}
	}

	set("event_name", p.Name != nil, p.Name)
	set("event_description", p.Description != nil, p.Description)
	set("event_date", p.Date != nil, p.Date)
	set("event_time", p.Time != nil, p.Time)
	set("event_duration", p.Duration != nil, p.Duration)
	set("last_date_to_register", p.LastDateToRegister != nil, p.LastDateToRegister)
	set("event_capacity", p.Capacity != nil, p.Capacity)
	set("event_type", p.Type != nil, stringPtr(p.Type))
	set("event_team_allowed", p.TeamAllowed != nil, p.TeamAllowed)
	set("event_team_size", p.TeamSize != nil, p.TeamSize)
	set("venue", p.Venue != nil, p.Venue)
	set("person_incharge", p.PersonInCharge != nil, p.PersonInCharge)
	set("event_status", p.Status != nil, stringPtr(p.Status))
	set("event_prizes", p.Prizes != nil, p.Prizes)
	set("event_thumbnail_id", p.ThumbnailID != nil, p.ThumbnailID)

	if p.ResetTeams {
		columns["registered_team"] = pq.StringArray{}
	}
	if p.DropTeams {
		columns["registered_team"] = nil
		columns["remarked_team"] = nil
	}

	return columns
}

func stringPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)

	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	row := dao.Event{
		ID:                 e.ID,
		EventName:          e.Name,
		EventDescription:   e.Description,
		EventDate:          e.Date,
		EventTime:          e.Time,
		EventDuration:      e.Duration,
		LastDateToRegister: e.LastDateToRegister,
		EventCapacity:      e.Capacity,
		EventType:          stringPtr(e.Type),
		EventTeamAllowed:   e.TeamAllowed,
		EventTeamSize:      e.TeamSize,
		Venue:              e.Venue,
		PersonIncharge:     e.PersonInCharge,
		EventStatus:        stringPtr(e.Status),
		EventPrizes:        e.Prizes,
		EventThumbnailID:   e.ThumbnailID,
		Remark:             e.Remark,
		RegisteredUser:     pq.StringArray(nonNil(e.RegisteredUsers)),
		RemarkedUser:       pq.StringArray(nonNil(e.RemarkedUsers)),
		CreatedOn:          e.CreatedOn,
	}
	if e.RegisteredTeams != nil {
		row.RegisteredTeam = pq.StringArray(e.RegisteredTeams)
	}
	if e.RemarkedTeams != nil {
		row.RemarkedTeam = pq.StringArray(e.RemarkedTeams)
	}

	return row
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:                 e.ID,
		Name:               e.EventName,
		Description:        e.EventDescription,
		Date:               e.EventDate,
		Time:               e.EventTime,
		Duration:           e.EventDuration,
		LastDateToRegister: e.LastDateToRegister,
		Capacity:           e.EventCapacity,
		TeamAllowed:        e.EventTeamAllowed,
		TeamSize:           e.EventTeamSize,
		Venue:              e.Venue,
		PersonInCharge:     e.PersonIncharge,
		Prizes:             e.EventPrizes,
		ThumbnailID:        e.EventThumbnailID,
		Remark:             e.Remark,
		CreatedOn:          e.CreatedOn,
		RegisteredUsers:    nonNil(e.RegisteredUser),
		RemarkedUsers:      nonNil(e.RemarkedUser),
	}
	if e.EventType != nil {
		t := domain.EventType(*e.EventType)
		event.Type = &t
	}
	if e.EventStatus != nil {
		s := domain.EventStatus(*e.EventStatus)
		event.Status = &s
	}
	if e.RegisteredTeam != nil {
		event.RegisteredTeams = []string(e.RegisteredTeam)
	}
	if e.RemarkedTeam != nil {
		event.RemarkedTeams = []string(e.RemarkedTeam)
	}

	return event
}

func (r *EventRepository) daosToDomain(rows []dao.Event) []domain.Event {
	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, r.daoToDomain(row))
	}

	return events
}
