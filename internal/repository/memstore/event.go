package memstore

import (
	"context"
	"slices"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

type eventStore partition

func cloneEvent(e *domain.Event) domain.Event {
	c := *e
	c.RegisteredUsers = slices.Clone(e.RegisteredUsers)
	c.RegisteredTeams = slices.Clone(e.RegisteredTeams)
	c.RemarkedUsers = slices.Clone(e.RemarkedUsers)
	c.RemarkedTeams = slices.Clone(e.RemarkedTeams)
	if c.RegisteredUsers == nil {
		c.RegisteredUsers = []string{}
	}
	if c.RemarkedUsers == nil {
		c.RemarkedUsers = []string{}
	}

	return c
}

func (s *eventStore) Insert(_ context.Context, event domain.Event) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneEvent(&event)
	s.events[event.ID] = &stored
	s.eventOrder = append(s.eventOrder, event.ID)

	return cloneEvent(&stored), nil
}

func (s *eventStore) FindByID(_ context.Context, id string) (domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return cloneEvent(e), nil
}

func (s *eventStore) FindMany(_ context.Context, ids []string) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Event{}
	for _, id := range s.eventOrder {
		if e, ok := s.events[id]; ok && slices.Contains(ids, id) {
			out = append(out, cloneEvent(e))
		}
	}

	return out, nil
}

func (s *eventStore) List(_ context.Context) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Event{}
	for _, id := range s.eventOrder {
		if e, ok := s.events[id]; ok {
			out = append(out, cloneEvent(e))
		}
	}

	return out, nil
}

func (s *eventStore) mutate(id string, fn func(*domain.Event)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	fn(e)

	return nil
}

func (s *eventStore) Update(_ context.Context, id string, p domain.EventPatch) error {
	return s.mutate(id, func(e *domain.Event) {
		assign(&e.Name, p.Name)
		assignPtr(&e.Description, p.Description)
		assignPtr(&e.Date, p.Date)
		assignPtr(&e.Time, p.Time)
		assignPtr(&e.Duration, p.Duration)
		assignPtr(&e.LastDateToRegister, p.LastDateToRegister)
		assignPtr(&e.Capacity, p.Capacity)
		assignPtr(&e.Type, p.Type)
		assign(&e.TeamAllowed, p.TeamAllowed)
		assign(&e.TeamSize, p.TeamSize)
		assignPtr(&e.Venue, p.Venue)
		assignPtr(&e.PersonInCharge, p.PersonInCharge)
		assignPtr(&e.Status, p.Status)
		assignPtr(&e.Prizes, p.Prizes)
		assignPtr(&e.ThumbnailID, p.ThumbnailID)
		if p.ResetTeams {
			e.RegisteredTeams = []string{}
		}
		if p.DropTeams {
			e.RegisteredTeams = nil
			e.RemarkedTeams = nil
		}
	})
}

func assign[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func assignPtr[T any](dst **T, v *T) {
	if v != nil {
		c := *v
		*dst = &c
	}
}

func (s *eventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(s.events, id)
	s.eventOrder = slices.DeleteFunc(s.eventOrder, func(v string) bool { return v == id })

	return nil
}

func (s *eventStore) AddRegisteredUser(_ context.Context, id, userID string) error {
	return s.mutate(id, func(e *domain.Event) { e.RegisteredUsers = addToSet(e.RegisteredUsers, userID) })
}

func (s *eventStore) RemoveRegisteredUser(_ context.Context, id, userID string) error {
	return s.mutate(id, func(e *domain.Event) { e.RegisteredUsers = pull(e.RegisteredUsers, userID) })
}

func (s *eventStore) AddRegisteredTeam(_ context.Context, id, teamID string) error {
	return s.mutate(id, func(e *domain.Event) { e.RegisteredTeams = addToSet(e.RegisteredTeams, teamID) })
}

func (s *eventStore) RemoveRegisteredTeam(_ context.Context, id, teamID string) error {
	return s.mutate(id, func(e *domain.Event) { e.RegisteredTeams = pull(e.RegisteredTeams, teamID) })
}

func (s *eventStore) AddRemarkedUser(_ context.Context, id, userID string) error {
	return s.mutate(id, func(e *domain.Event) { e.RemarkedUsers = addToSet(e.RemarkedUsers, userID) })
}

func (s *eventStore) RemoveRemarkedUser(_ context.Context, id, userID string) error {
	return s.mutate(id, func(e *domain.Event) { e.RemarkedUsers = pull(e.RemarkedUsers, userID) })
}

func (s *eventStore) AddRemarkedTeam(_ context.Context, id, teamID string) error {
	return s.mutate(id, func(e *domain.Event) { e.RemarkedTeams = addToSet(e.RemarkedTeams, teamID) })
}

func (s *eventStore) RemoveRemarkedTeam(_ context.Context, id, teamID string) error {
	return s.mutate(id, func(e *domain.Event) { e.RemarkedTeams = pull(e.RemarkedTeams, teamID) })
}

func (s *eventStore) SetRemark(_ context.Context, id string, remark *string) error {
	return s.mutate(id, func(e *domain.Event) { e.Remark = remark })
}

func (s *eventStore) ReplaceIndex(_ context.Context, id string, users, teams []string) error {
	return s.mutate(id, func(e *domain.Event) {
		e.RegisteredUsers = slices.Clone(users)
		if e.RegisteredUsers == nil {
			e.RegisteredUsers = []string{}
		}
		e.RegisteredTeams = slices.Clone(teams)
	})
}
