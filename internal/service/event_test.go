package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
	"github.com/ieee-synapse/synapse-api/internal/repository/memstore"
)

func png(n int) *Upload {
	return &Upload{Filename: "thumb.png", ContentType: "image/png", Data: bytes.Repeat([]byte{1}, n)}
}

func TestEventCreate_TeamFields(t *testing.T) {
	f := newFixture(t)

	solo, err := f.events.Create(f.ctx, domain.Event{Name: "Quiz", TeamSize: 4}, nil)
	require.NoError(t, err)
	assert.Zero(t, solo.TeamSize)
	assert.Nil(t, solo.RegisteredTeams)
	assert.Empty(t, solo.RegisteredUsers)

	team, err := f.events.Create(f.ctx, domain.Event{Name: "Hack", TeamAllowed: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, team.TeamSize)
	assert.NotNil(t, team.RegisteredTeams)
	assert.Empty(t, team.RegisteredTeams)
}

func TestEventCreate_Image(t *testing.T) {
	f := newFixture(t)

	_, err := f.events.Create(f.ctx, domain.Event{Name: "Big"}, png(DefaultMaxImageBytes+1))
	requireKind(t, domain.KindInvalidInput, err)
	assert.Zero(t, f.blobs.Len())

	e, err := f.events.Create(f.ctx, domain.Event{Name: "Small"}, png(DefaultMaxImageBytes))
	require.NoError(t, err)
	require.NotNil(t, e.ThumbnailID)

	b, err := f.part.Blobs().Get(f.ctx, *e.ThumbnailID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", b.ContentType)
}

func TestEventUpdate_ReplacesImage(t *testing.T) {
	f := newFixture(t)
	e, err := f.events.Create(f.ctx, domain.Event{Name: "Talk"}, png(10))
	require.NoError(t, err)

	require.NoError(t, f.events.Update(f.ctx, e.ID, domain.EventPatch{}, png(20)))

	got := f.loadEvent(t, e.ID)
	require.NotNil(t, got.ThumbnailID)
	assert.NotEqual(t, *e.ThumbnailID, *got.ThumbnailID)
	assert.Equal(t, 1, f.blobs.Len())
	_, err = f.part.Blobs().Get(f.ctx, *e.ThumbnailID)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestEventUpdate_TeamsToggledOff(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("K7X2P")))
	e := f.event(t, 3)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)
	c := f.registered(t, f.user(t, "c"), e.ID)

	t1, err := f.teams.Create(f.ctx, a, e.ID, "T1", nil)
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, b, e.ID, t1.Code)
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, c, e.ID, t1.Code)
	require.NoError(t, err)
	require.NoError(t, f.remarks.AttachTeam(f.ctx, t1.ID, "strong"))

	off := false
	require.NoError(t, f.events.Update(f.ctx, e.ID, domain.EventPatch{TeamAllowed: &off}, nil))

	_, err = f.part.Teams().FindByID(f.ctx, t1.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	for _, u := range []domain.User{a, b, c} {
		got := f.reload(t, u)
		_, ok := got.Registration(e.ID)
		assert.True(t, ok, "registration kept for %s", u.ID)
		assert.Empty(t, got.TeamFor(e.ID))
	}

	event := f.loadEvent(t, e.ID)
	assert.False(t, event.TeamAllowed)
	assert.Zero(t, event.TeamSize)
	assert.Nil(t, event.RegisteredTeams)
	assert.Nil(t, event.RemarkedTeams)
	assert.Len(t, event.RegisteredUsers, 3)
}

func TestEventUpdate_TeamsToggledOn(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, 0)

	on := true
	require.NoError(t, f.events.Update(f.ctx, e.ID, domain.EventPatch{TeamAllowed: &on}, nil))

	event := f.loadEvent(t, e.ID)
	assert.True(t, event.TeamAllowed)
	assert.Equal(t, 1, event.TeamSize)
	assert.NotNil(t, event.RegisteredTeams)

	size := 0
	require.NoError(t, f.events.Update(f.ctx, e.ID, domain.EventPatch{TeamSize: &size}, nil))
	assert.Equal(t, 1, f.loadEvent(t, e.ID).TeamSize)
}

func TestEventUpdate_SizeIgnoredWithoutTeams(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, 0)

	size := 5
	require.NoError(t, f.events.Update(f.ctx, e.ID, domain.EventPatch{TeamSize: &size}, nil))
	assert.Zero(t, f.loadEvent(t, e.ID).TeamSize)
}

func TestEventDelete_Cascades(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("K7X2P")))
	e, err := f.events.Create(f.ctx, domain.Event{Name: "E1", TeamAllowed: true, TeamSize: 3}, png(10))
	require.NoError(t, err)
	other := f.event(t, 0)

	a := f.registered(t, f.user(t, "a"), e.ID)
	loner := f.registered(t, f.user(t, "loner"), e.ID)
	loner = f.registered(t, loner, other.ID)
	t1, err := f.teams.Create(f.ctx, a, e.ID, "T1", nil)
	require.NoError(t, err)

	require.NoError(t, f.events.Delete(f.ctx, e.ID))

	_, err = f.part.Events().FindByID(f.ctx, e.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
	_, err = f.part.Teams().FindByID(f.ctx, t1.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.Zero(t, f.blobs.Len())

	_, ok := f.reload(t, a).Registration(e.ID)
	assert.False(t, ok)
	got := f.reload(t, loner)
	_, ok = got.Registration(e.ID)
	assert.False(t, ok)
	_, ok = got.Registration(other.ID)
	assert.True(t, ok)

	requireKind(t, domain.KindNotFound, f.events.Delete(f.ctx, e.ID))
}

// brokenWrites fails event inserts and blob deletes in every partition.
type brokenWrites struct{ *memstore.Store }

func (s brokenWrites) Partition(ctx context.Context, id domain.SessionID) (repository.Partition, error) {
	p, err := s.Store.Partition(ctx, id)
	if err != nil {
		return nil, err
	}

	return brokenPartition{p}, nil
}

type brokenPartition struct{ repository.Partition }

func (p brokenPartition) Events() repository.EventStore { return brokenEvents{p.Partition.Events()} }
func (p brokenPartition) Blobs() repository.BlobStore   { return brokenBlobs{p.Partition.Blobs()} }

type brokenEvents struct{ repository.EventStore }

func (brokenEvents) Insert(context.Context, domain.Event) (domain.Event, error) {
	return domain.Event{}, errors.New("insert failed")
}

type brokenBlobs struct{ repository.BlobStore }

func (brokenBlobs) Delete(context.Context, string) error {
	return errors.New("delete failed")
}

func TestEventCreate_LogsOrphanedThumbnail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	f := newFixture(t)
	events := NewEventService(brokenWrites{f.store}, f.sessions, 0)

	_, err := events.Create(f.ctx, domain.Event{Name: "Quiz"}, png(10))
	require.Error(t, err)
	assert.Equal(t, 1, f.blobs.Len())

	entries := logs.FilterMessage("failed to delete thumbnail of unsaved event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, f.sessions.Current().String(), entries[0].ContextMap()["session"])
}
