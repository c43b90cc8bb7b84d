package memstore

import (
	"context"
	"slices"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

type userStore partition

func cloneUser(u *domain.User) domain.User {
	c := *u
	if u.Profile != nil {
		p := *u.Profile
		c.Profile = &p
	}
	c.RegisteredEvents = slices.Clone(u.RegisteredEvents)
	if c.RegisteredEvents == nil {
		c.RegisteredEvents = []domain.Registration{}
	}

	return c
}

func (s *userStore) Insert(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrEmailExists
		}
	}
	stored := cloneUser(&user)
	s.users[user.ID] = &stored
	s.userOrder = append(s.userOrder, user.ID)

	return cloneUser(&stored), nil
}

func (s *userStore) find(match func(*domain.User) bool) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.userOrder {
		if u := s.users[id]; match(u) {
			return cloneUser(u), nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (s *userStore) FindByID(_ context.Context, id string) (domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.ID == id })
}

func (s *userStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.Email == email })
}

func (s *userStore) FindByIDAndEmail(_ context.Context, id, email string) (domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.ID == id && u.Email == email })
}

func (s *userStore) filter(match func(*domain.User) bool) []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.User{}
	for _, id := range s.userOrder {
		if u := s.users[id]; match(u) {
			out = append(out, cloneUser(u))
		}
	}

	return out
}

func (s *userStore) FindMany(_ context.Context, ids []string) ([]domain.User, error) {
	return s.filter(func(u *domain.User) bool { return slices.Contains(ids, u.ID) }), nil
}

func (s *userStore) List(_ context.Context) ([]domain.User, error) {
	return s.filter(func(*domain.User) bool { return true }), nil
}

func (s *userStore) ListRegisteredFor(_ context.Context, eventID string) ([]domain.User, error) {
	return s.filter(func(u *domain.User) bool {
		_, ok := u.Registration(eventID)
		return ok
	}), nil
}

func (s *userStore) mutate(id string, fn func(*domain.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}

	return fn(u)
}

func (s *userStore) UpdateProfile(_ context.Context, id string, profile domain.Profile) error {
	return s.mutate(id, func(u *domain.User) error {
		u.Profile = &profile
		return nil
	})
}

func (s *userStore) PushRegistration(_ context.Context, id string, reg domain.Registration) error {
	return s.mutate(id, func(u *domain.User) error {
		if _, ok := u.Registration(reg.EventID); ok {
			return repository.ErrAlreadyRegistered
		}
		u.RegisteredEvents = append(u.RegisteredEvents, reg)
		return nil
	})
}

func (s *userStore) PullRegistration(_ context.Context, id, eventID string) error {
	return s.mutate(id, func(u *domain.User) error {
		u.RegisteredEvents = slices.DeleteFunc(u.RegisteredEvents, func(r domain.Registration) bool {
			return r.EventID == eventID
		})
		return nil
	})
}

func (s *userStore) PullRegistrationFromAll(_ context.Context, eventID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, u := range s.users {
		before := len(u.RegisteredEvents)
		u.RegisteredEvents = slices.DeleteFunc(u.RegisteredEvents, func(r domain.Registration) bool {
			return r.EventID == eventID
		})
		if len(u.RegisteredEvents) != before {
			n++
		}
	}

	return n, nil
}

// rewrite applies fn to the entry for eventID; it reports whether one was found.
func rewrite(u *domain.User, eventID string, fn func(*domain.Registration)) bool {
	for i := range u.RegisteredEvents {
		if u.RegisteredEvents[i].EventID == eventID {
			fn(&u.RegisteredEvents[i])
			return true
		}
	}

	return false
}

func (s *userStore) SetRegistrationTeam(_ context.Context, id, eventID, teamID string) error {
	return s.mutate(id, func(u *domain.User) error {
		if !rewrite(u, eventID, func(r *domain.Registration) { r.TeamID = teamID }) {
			return repository.ErrUserNotFound
		}
		return nil
	})
}

func (s *userStore) ClearTeamForEvent(_ context.Context, eventID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, u := range s.users {
		if rewrite(u, eventID, func(r *domain.Registration) { r.TeamID = "" }) {
			n++
		}
	}

	return n, nil
}

func (s *userStore) SetRegistrationRemark(_ context.Context, id, eventID string, remark *string) error {
	return s.mutate(id, func(u *domain.User) error {
		if !rewrite(u, eventID, func(r *domain.Registration) { r.Remark = remark }) {
			return repository.ErrUserNotFound
		}
		return nil
	})
}
