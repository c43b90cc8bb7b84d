package memstore

import (
	"context"
	"slices"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

type teamStore partition

func cloneTeam(t *domain.Team) domain.Team {
	c := *t
	c.Members = slices.Clone(t.Members)
	if c.Members == nil {
		c.Members = []string{}
	}
	c.MemberDetails = slices.Clone(t.MemberDetails)

	return c
}

func (s *teamStore) Insert(_ context.Context, team domain.Team) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.teams {
		if t.EventID != team.EventID {
			continue
		}
		if t.Name == team.Name {
			return domain.Team{}, repository.ErrTeamNameTaken
		}
		if t.Code == team.Code {
			return domain.Team{}, repository.ErrTeamCodeTaken
		}
	}
	stored := cloneTeam(&team)
	s.teams[team.ID] = &stored
	s.teamOrder = append(s.teamOrder, team.ID)

	return cloneTeam(&stored), nil
}

func (s *teamStore) find(match func(*domain.Team) bool) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.teamOrder {
		if t, ok := s.teams[id]; ok && match(t) {
			return cloneTeam(t), nil
		}
	}

	return domain.Team{}, repository.ErrTeamNotFound
}

func (s *teamStore) filter(match func(*domain.Team) bool) []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Team{}
	for _, id := range s.teamOrder {
		if t, ok := s.teams[id]; ok && match(t) {
			out = append(out, cloneTeam(t))
		}
	}

	return out
}

func (s *teamStore) FindByID(_ context.Context, id string) (domain.Team, error) {
	return s.find(func(t *domain.Team) bool { return t.ID == id })
}

func (s *teamStore) FindByCode(_ context.Context, eventID, code string) (domain.Team, error) {
	return s.find(func(t *domain.Team) bool { return t.EventID == eventID && t.Code == code })
}

func (s *teamStore) FindByName(_ context.Context, eventID, name string) (domain.Team, error) {
	return s.find(func(t *domain.Team) bool { return t.EventID == eventID && t.Name == name })
}

func (s *teamStore) CodeExists(ctx context.Context, eventID, code string) (bool, error) {
	_, err := s.FindByCode(ctx, eventID, code)
	return err == nil, nil
}

func (s *teamStore) FindMany(_ context.Context, ids []string) ([]domain.Team, error) {
	return s.filter(func(t *domain.Team) bool { return slices.Contains(ids, t.ID) }), nil
}

func (s *teamStore) ListByEvent(_ context.Context, eventID string) ([]domain.Team, error) {
	return s.filter(func(t *domain.Team) bool { return t.EventID == eventID }), nil
}

func (s *teamStore) List(_ context.Context) ([]domain.Team, error) {
	return s.filter(func(*domain.Team) bool { return true }), nil
}

func (s *teamStore) AddMember(_ context.Context, id, userID string, maxMembers int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[id]
	if !ok {
		return repository.ErrTeamNotFound
	}
	if t.LeaderID == userID || slices.Contains(t.Members, userID) {
		return repository.ErrAlreadyMember
	}
	if len(t.Members) >= maxMembers {
		return repository.ErrTeamFull
	}
	t.Members = append(t.Members, userID)

	return nil
}

func (s *teamStore) RemoveMember(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[id]
	if !ok {
		return repository.ErrTeamNotFound
	}
	t.Members = pull(t.Members, userID)

	return nil
}

func (s *teamStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[id]; !ok {
		return repository.ErrTeamNotFound
	}
	delete(s.teams, id)
	s.teamOrder = slices.DeleteFunc(s.teamOrder, func(v string) bool { return v == id })

	return nil
}

func (s *teamStore) DeleteByEvent(_ context.Context, eventID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, t := range s.teams {
		if t.EventID == eventID {
			delete(s.teams, id)
			n++
		}
	}
	s.teamOrder = slices.DeleteFunc(s.teamOrder, func(v string) bool {
		_, ok := s.teams[v]
		return !ok
	})

	return n, nil
}

func (s *teamStore) SetRemark(_ context.Context, id string, remark *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[id]
	if !ok {
		return repository.ErrTeamNotFound
	}
	t.Remark = remark

	return nil
}
