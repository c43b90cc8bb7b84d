package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

func TestNormalizeTeamName(t *testing.T) {
	assert.Equal(t, "the byte club", NormalizeTeamName("  The   Byte\tCLUB "))
	assert.Equal(t, "", NormalizeTeamName("   "))
}

func TestRandomTeamCode(t *testing.T) {
	for range 100 {
		code := RandomTeamCode()
		require.Len(t, code, 5)
		for _, c := range code {
			assert.Contains(t, teamCodeAlphabet, string(c))
		}
	}
}

func TestTeam_JoinUntilFull(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("K7X2P")))
	e := f.event(t, 3)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)
	c := f.registered(t, f.user(t, "c"), e.ID)
	d := f.registered(t, f.user(t, "d"), e.ID)

	t1, err := f.teams.Create(f.ctx, a, e.ID, "T1", nil)
	require.NoError(t, err)
	assert.Equal(t, "K7X2P", t1.Code)
	assert.Empty(t, t1.Members)
	assert.Equal(t, t1.ID, f.reload(t, a).TeamFor(e.ID))
	assert.Contains(t, f.loadEvent(t, e.ID).RegisteredTeams, t1.ID)

	_, err = f.teams.Join(f.ctx, b, e.ID, "K7X2P")
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, c, e.ID, "k7x2p")
	require.NoError(t, err)

	stored, err := f.part.Teams().FindByID(f.ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, c.ID}, stored.Members)

	_, err = f.teams.Join(f.ctx, d, e.ID, "K7X2P")
	requireKind(t, domain.KindConflict, err)
	assert.Contains(t, err.Error(), "max capacity")

	after, err := f.part.Teams().FindByID(f.ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Members, after.Members)
	assert.Empty(t, f.reload(t, d).TeamFor(e.ID))
}

func TestTeam_ConcurrentJoinsForLastSlot(t *testing.T) {
	const joiners = 6
	f := newFixture(t, WithCodeGenerator(codes("LAST1")))
	e := f.event(t, 3)
	leader := f.registered(t, f.user(t, "lead"), e.ID)
	first := f.registered(t, f.user(t, "first"), e.ID)

	team, err := f.teams.Create(f.ctx, leader, e.ID, "Crew", nil)
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, first, e.ID, team.Code)
	require.NoError(t, err)

	users := make([]domain.User, joiners)
	for i := range users {
		users[i] = f.registered(t, f.user(t, fmt.Sprintf("racer%d", i)), e.ID)
	}

	errs := make([]error, joiners)
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.teams.Join(f.ctx, u, e.ID, team.Code)
		}()
	}
	wg.Wait()

	var joined int
	for _, err := range errs {
		if err == nil {
			joined++
			continue
		}
		requireKind(t, domain.KindConflict, err)
	}
	assert.Equal(t, 1, joined)

	stored, err := f.part.Teams().FindByID(f.ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Members, e.MaxMembers())

	var withTeam int
	for _, u := range users {
		if f.reload(t, u).TeamFor(e.ID) == team.ID {
			withTeam++
		}
	}
	assert.Equal(t, 1, withTeam)
}

func TestTeam_CreatePreconditions(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("AAAAA", "BBBBB")))
	solo := f.event(t, 0)
	e := f.event(t, 2)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)
	outsider := f.user(t, "c")

	_, err := f.teams.Create(f.ctx, a, solo.ID, "Solo", nil)
	requireKind(t, domain.KindConflict, err)

	_, err = f.teams.Create(f.ctx, outsider, e.ID, "Crew", nil)
	requireKind(t, domain.KindNotFound, err)

	_, err = f.teams.Create(f.ctx, a, e.ID, "Crew", []domain.MemberDetail{{Name: "x"}, {Name: "y"}})
	requireKind(t, domain.KindConflict, err)
	assert.Contains(t, err.Error(), "limit of 1 members")

	_, err = f.teams.Create(f.ctx, a, e.ID, "Crew", []domain.MemberDetail{{Name: "x"}})
	require.NoError(t, err)

	_, err = f.teams.Create(f.ctx, f.reload(t, a), e.ID, "Other", nil)
	requireKind(t, domain.KindConflict, err)

	_, err = f.teams.Create(f.ctx, b, e.ID, "  CREW ", nil)
	requireKind(t, domain.KindConflict, err)
	assert.Contains(t, err.Error(), "name already taken")
}

func TestTeam_CodeCollisionIsResampled(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("AAAAA", "AAAAA", "BBBBB")))
	e := f.event(t, 2)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)

	first, err := f.teams.Create(f.ctx, a, e.ID, "One", nil)
	require.NoError(t, err)
	second, err := f.teams.Create(f.ctx, b, e.ID, "Two", nil)
	require.NoError(t, err)

	assert.Equal(t, "AAAAA", first.Code)
	assert.Equal(t, "BBBBB", second.Code)
}

func TestTeam_CompletedEvent(t *testing.T) {
	f := newFixture(t)
	e := f.event(t, 2)
	a := f.registered(t, f.user(t, "a"), e.ID)

	done := domain.EventCompleted
	require.NoError(t, f.events.Update(f.ctx, e.ID, domain.EventPatch{Status: &done}, nil))

	_, err := f.teams.Create(f.ctx, a, e.ID, "Late", nil)
	requireKind(t, domain.KindConflict, err)
}

func TestTeam_JoinRules(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("AAAAA", "BBBBB")))
	e := f.event(t, 4)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)
	c := f.registered(t, f.user(t, "c"), e.ID)

	team, err := f.teams.Create(f.ctx, a, e.ID, "Crew", nil)
	require.NoError(t, err)

	_, err = f.teams.Join(f.ctx, b, e.ID, "ZZZZZ")
	requireKind(t, domain.KindNotFound, err)

	_, err = f.teams.Join(f.ctx, b, e.ID, team.Code)
	require.NoError(t, err)

	_, err = f.teams.Join(f.ctx, f.reload(t, b), e.ID, team.Code)
	requireKind(t, domain.KindConflict, err)

	other, err := f.teams.Create(f.ctx, c, e.ID, "Other", nil)
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, f.reload(t, c), e.ID, other.Code)
	requireKind(t, domain.KindConflict, err)
}

func TestTeam_LeaveAndDelete(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("AAAAA")))
	e := f.event(t, 3)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)
	c := f.registered(t, f.user(t, "c"), e.ID)

	team, err := f.teams.Create(f.ctx, a, e.ID, "Crew", nil)
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, b, e.ID, team.Code)
	require.NoError(t, err)
	_, err = f.teams.Join(f.ctx, c, e.ID, team.Code)
	require.NoError(t, err)

	requireKind(t, domain.KindConflict, f.teams.Leave(f.ctx, f.reload(t, a), e.ID, "crew"))

	require.NoError(t, f.teams.Leave(f.ctx, f.reload(t, b), e.ID, "Crew"))
	assert.Empty(t, f.reload(t, b).TeamFor(e.ID))
	requireKind(t, domain.KindNotFound, f.teams.Leave(f.ctx, f.reload(t, b), e.ID, "Crew"))

	requireKind(t, domain.KindForbidden, f.teams.Delete(f.ctx, f.reload(t, c), e.ID, "Crew"))

	require.NoError(t, f.remarks.AttachTeam(f.ctx, team.ID, "late submission"))
	require.NoError(t, f.teams.Delete(f.ctx, f.reload(t, a), e.ID, "Crew"))

	_, err = f.part.Teams().FindByID(f.ctx, team.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
	assert.Empty(t, f.reload(t, a).TeamFor(e.ID))
	assert.Empty(t, f.reload(t, c).TeamFor(e.ID))

	event := f.loadEvent(t, e.ID)
	assert.NotContains(t, event.RegisteredTeams, team.ID)
	assert.NotContains(t, event.RemarkedTeams, team.ID)
}
