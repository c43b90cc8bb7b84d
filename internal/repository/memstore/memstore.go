// Package memstore is an in-process repository.Store. Each method holds the
// partition lock for its whole duration, matching the single-row atomicity of
// the Postgres store.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
	"github.com/ieee-synapse/synapse-api/internal/session"
)

type Store struct {
	mu          sync.Mutex
	partitions  map[domain.SessionID]*partition
	admins      map[domain.SessionID]*accounts
	superadmins *accounts
	blobs       repository.BlobBackend
	// extra holds names that exist in storage but do not follow the convention.
	extra []string
}

func New(blobs repository.BlobBackend) *Store {
	if blobs == nil {
		blobs = repository.NoBlobs
	}

	return &Store{
		partitions:  map[domain.SessionID]*partition{},
		admins:      map[domain.SessionID]*accounts{},
		superadmins: newAccounts(),
		blobs:       blobs,
	}
}

// AddForeignName registers a non-conforming database name, as left behind by other tools.
func (s *Store) AddForeignName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extra = append(s.extra, name)
}

func (s *Store) Partition(_ context.Context, id domain.SessionID) (repository.Partition, error) {
	if !session.Matches(id.String()) {
		return nil, session.ErrInvalidFormat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.partitions[id]
	if !ok {
		p = newPartition(id, s.blobs.ForSession(id))
		s.partitions[id] = p
	}

	return p, nil
}

func (s *Store) Partitions(_ context.Context) ([]domain.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := slices.Clone(s.extra)
	for id := range s.partitions {
		names = append(names, id.String())
	}

	return conforming(names), nil
}

func (s *Store) PartitionExists(_ context.Context, id domain.SessionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.partitions[id]
	return ok, nil
}

func (s *Store) Admins(_ context.Context, id domain.SessionID) (repository.AccountStore, error) {
	if !session.Matches(id.String()) {
		return nil, session.ErrInvalidFormat
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[id]
	if !ok {
		a = newAccounts()
		s.admins[id] = a
	}

	return a, nil
}

func (s *Store) AdminSessions(_ context.Context) ([]domain.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var names []string
	for id := range s.admins {
		names = append(names, id.String())
	}

	return conforming(names), nil
}

func (s *Store) AdminSessionExists(_ context.Context, id domain.SessionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.admins[id]
	return ok, nil
}

func (s *Store) Superadmins() repository.AccountStore {
	return s.superadmins
}

func (s *Store) Close() error {
	return nil
}

func conforming(names []string) []domain.SessionID {
	sort.Strings(names)
	ids := make([]domain.SessionID, 0, len(names))
	for _, n := range names {
		if session.Matches(n) {
			ids = append(ids, domain.SessionID(n))
		}
	}

	return ids
}

type partition struct {
	id     domain.SessionID
	mu     sync.Mutex
	users  map[string]*domain.User
	events map[string]*domain.Event
	teams  map[string]*domain.Team
	// order keeps insertion order for listings.
	userOrder, eventOrder, teamOrder []string
	blobs                            repository.BlobStore
}

func newPartition(id domain.SessionID, blobs repository.BlobStore) *partition {
	return &partition{
		id:     id,
		users:  map[string]*domain.User{},
		events: map[string]*domain.Event{},
		teams:  map[string]*domain.Team{},
		blobs:  blobs,
	}
}

func (p *partition) Session() domain.SessionID      { return p.id }
func (p *partition) Users() repository.UserStore    { return (*userStore)(p) }
func (p *partition) Events() repository.EventStore  { return (*eventStore)(p) }
func (p *partition) Teams() repository.TeamStore    { return (*teamStore)(p) }
func (p *partition) Blobs() repository.BlobStore    { return p.blobs }

func addToSet(set []string, v string) []string {
	if slices.Contains(set, v) {
		return set
	}

	return append(set, v)
}

func pull(set []string, v string) []string {
	if set == nil {
		return nil
	}

	return slices.DeleteFunc(slices.Clone(set), func(s string) bool { return s == v })
}
