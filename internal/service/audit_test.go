package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
)

func TestAudit_CleanPartition(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("AAAAA")))
	e := f.event(t, 2)
	a := f.registered(t, f.user(t, "a"), e.ID)
	_, err := f.teams.Create(f.ctx, a, e.ID, "Crew", nil)
	require.NoError(t, err)

	report, err := NewAuditService(f.store, f.sessions).Audit(f.ctx, f.sessions.Current().String())
	require.NoError(t, err)
	assert.True(t, report.Clean(), "%+v", report.Findings)
}

func TestAudit_RepairRebuildsIndexFromDetail(t *testing.T) {
	f := newFixture(t, WithCodeGenerator(codes("AAAAA")))
	e := f.event(t, 2)
	a := f.registered(t, f.user(t, "a"), e.ID)
	b := f.registered(t, f.user(t, "b"), e.ID)
	team, err := f.teams.Create(f.ctx, a, e.ID, "Crew", nil)
	require.NoError(t, err)

	// crash between detail and index writes
	require.NoError(t, f.part.Events().RemoveRegisteredUser(f.ctx, e.ID, b.ID))
	ghost := objectid.New()
	require.NoError(t, f.part.Events().AddRegisteredUser(f.ctx, e.ID, ghost))
	require.NoError(t, f.part.Events().RemoveRegisteredTeam(f.ctx, e.ID, team.ID))
	// b points at a team it never joined
	require.NoError(t, f.part.Users().SetRegistrationTeam(f.ctx, b.ID, e.ID, team.ID))

	audit := NewAuditService(f.store, f.sessions)
	year := f.sessions.Current().String()

	report, err := audit.Audit(f.ctx, year)
	require.NoError(t, err)
	kinds := map[FindingKind]int{}
	for _, fd := range report.Findings {
		kinds[fd.Kind]++
	}
	assert.Equal(t, map[FindingKind]int{
		IndexedUserNotRegistered: 1,
		RegistrationNotIndexed:   1,
		TeamNotIndexed:           1,
		DanglingTeamRef:          1,
	}, kinds)

	repaired, err := audit.Repair(f.ctx, year)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired.Repaired)

	event := f.loadEvent(t, e.ID)
	assert.Equal(t, []string{a.ID, b.ID}, event.RegisteredUsers)
	assert.Equal(t, []string{team.ID}, event.RegisteredTeams)
	assert.Empty(t, f.reload(t, b).TeamFor(e.ID))
	assert.Equal(t, team.ID, f.reload(t, a).TeamFor(e.ID))

	after, err := audit.Audit(f.ctx, year)
	require.NoError(t, err)
	assert.True(t, after.Clean(), "%+v", after.Findings)
}
