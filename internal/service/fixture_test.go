package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/blob"
	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
	"github.com/ieee-synapse/synapse-api/internal/repository/memstore"
	"github.com/ieee-synapse/synapse-api/internal/session"
)

type fixture struct {
	ctx      context.Context
	now      time.Time
	store    *memstore.Store
	blobs    *blob.MemoryBackend
	sessions *session.Resolver
	part     repository.Partition

	identity     *IdentityService
	registration *RegistrationService
	teams        *TeamService
	events       *EventService
	remarks      *RemarkService
}

func newFixture(t *testing.T, opts ...TeamOption) *fixture {
	t.Helper()

	f := &fixture{
		ctx:   context.Background(),
		now:   time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
		blobs: blob.NewMemoryBackend(),
	}
	f.store = memstore.New(f.blobs)
	f.sessions = session.NewResolver(f.store, session.WithClock(func() time.Time { return f.now }))

	part, err := f.store.Partition(f.ctx, f.sessions.Current())
	require.NoError(t, err)
	f.part = part

	f.identity = NewIdentityService(f.store, f.sessions)
	f.registration = NewRegistrationService(f.store, f.sessions)
	f.teams = NewTeamService(f.store, f.sessions, opts...)
	f.events = NewEventService(f.store, f.sessions, 0)
	f.remarks = NewRemarkService(f.store, f.sessions, f.identity)

	return f
}

// user inserts a user with a completed profile.
func (f *fixture) user(t *testing.T, name string) domain.User {
	t.Helper()

	email := name + "@example.com"
	u, err := f.part.Users().Insert(f.ctx, domain.User{
		ID:        objectid.New(),
		Email:     email,
		CreatedOn: f.now,
		Profile: &domain.Profile{
			Name:                name,
			Email:               email,
			PhoneNumber:         "9876543210",
			CollegeOrUniversity: "IIT",
			Course:              "B.Tech",
			Year:                2,
			Gender:              domain.GenderOther,
		},
		RegisteredEvents: []domain.Registration{},
	})
	require.NoError(t, err)

	return u
}

func (f *fixture) reload(t *testing.T, u domain.User) domain.User {
	t.Helper()

	got, err := f.part.Users().FindByID(f.ctx, u.ID)
	require.NoError(t, err)

	return got
}

func (f *fixture) event(t *testing.T, teamSize int) domain.Event {
	t.Helper()

	e, err := f.events.Create(f.ctx, domain.Event{
		Name:        "Hackathon",
		TeamAllowed: teamSize > 0,
		TeamSize:    teamSize,
	}, nil)
	require.NoError(t, err)

	return e
}

func (f *fixture) loadEvent(t *testing.T, id string) domain.Event {
	t.Helper()

	e, err := f.part.Events().FindByID(f.ctx, id)
	require.NoError(t, err)

	return e
}

// registered signs u up for the event and returns the refreshed record.
func (f *fixture) registered(t *testing.T, u domain.User, eventID string) domain.User {
	t.Helper()

	require.NoError(t, f.registration.RegisterForEvent(f.ctx, u, eventID))

	return f.reload(t, u)
}

func codes(cs ...string) func() string {
	i := 0
	return func() string {
		c := cs[i%len(cs)]
		i++
		return c
	}
}

func requireKind(t *testing.T, kind domain.Kind, err error) {
	t.Helper()

	require.Error(t, err)
	require.Equal(t, kind, domain.KindOf(err), "error: %v", err)
}
