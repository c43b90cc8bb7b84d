package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/session"
)

func TestMyRegistrations_RoleLabels(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("AAAAA")))
	views := NewUserService(f.store, f.sessions)
	solo := f.event(t, 0)
	e := f.event(t, 3)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)
	b = f.registered(t, b, solo.ID)

	team, err := f.teams.Create(f.ctx, a, e.ID, "Crew", nil)
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, b, e.ID, team.Code)
	require.NoError(t, err)

	regs, err := views.MyRegistrations(f.ctx, f.reload(t, a))
	require.NoError(t, err)
	require.Len(t, regs, 1)
	require.NotNil(t, regs[0].Role)
	assert.Equal(t, RoleLeader, *regs[0].Role)
	assert.Equal(t, "crew", *regs[0].TeamName)

	regs, err = views.MyRegistrations(f.ctx, f.reload(t, b))
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, RoleMember, *regs[0].Role)
	assert.Nil(t, regs[1].Role)
	assert.Nil(t, regs[1].TeamID)
	assert.Equal(t, "Hackathon", *regs[1].EventName)
}

func TestMyTeam(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("AAAAA")))
	views := NewUserService(f.store, f.sessions)
	e := f.event(t, 3)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)
	stranger := f.user(t, "c")

	team, err := f.teams.Create(f.ctx, a, e.ID, "Crew", nil)
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, b, e.ID, team.Code)
	require.NoError(t, err)

	v, err := views.MyTeam(f.ctx, b, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAAAA", v.Code)
	assert.Equal(t, "a", v.LeaderName)
	assert.Equal(t, []Contact{{Name: "b", Email: "b@example.com"}}, v.Members)
	assert.Equal(t, "Hackathon", v.EventName)

	_, err = views.MyTeam(f.ctx, stranger, team.ID)
	requireKind(t, domain.KindForbidden, err)
}

func TestRegisteredEvent(t *testing.T) {
	f := newFixture(t)
	views := NewUserService(f.store, f.sessions)
	e := f.event(t, 0)
	u := f.user(t, "a")

	_, err := views.RegisteredEvent(f.ctx, u, e.ID)
	requireKind(t, domain.KindNotFound, err)

	u = f.registered(t, u, e.ID)
	v, err := views.RegisteredEvent(f.ctx, u, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, v.ID)
}

func TestArchiveEventsAndImage(t *testing.T) {
	f := newFixture(t)
	views := NewUserService(f.store, f.sessions)
	e, err := f.events.Create(f.ctx, domain.Event{Name: "Now"}, png(10))
	require.NoError(t, err)

	old, err := f.store.Partition(f.ctx, "2023_2024")
	require.NoError(t, err)
	_, err = old.Events().Insert(f.ctx, domain.Event{ID: "65a1f0c2e4b0a1b2c3d4e5f6", Name: "Then"})
	require.NoError(t, err)
	f.store.AddForeignName("admin")

	archive, err := views.ArchiveEvents(f.ctx)
	require.NoError(t, err)
	assert.Len(t, archive, 2)
	assert.Equal(t, "Then", archive["2023_2024"][0].Name)
	assert.Equal(t, "Now", archive[session.Current(f.now).String()][0].Name)

	img, err := views.Image(f.ctx, "", *e.ThumbnailID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)

	_, err = views.Image(f.ctx, "2023_2024", *e.ThumbnailID)
	requireKind(t, domain.KindNotFound, err)
	_, err = views.Image(f.ctx, "2019_2020", *e.ThumbnailID)
	requireKind(t, domain.KindNotFound, err)
	_, err = views.Image(f.ctx, "20232024", *e.ThumbnailID)
	requireKind(t, domain.KindInvalidInput, err)
}
