package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ieee-synapse/synapse-api/internal/service"
)

type stubReports struct {
	users  []service.UserSummary
	teams  []service.TeamSummary
	events []service.EventSummary
	err    error
}

func (s stubReports) Users(context.Context, string) (service.Page[service.UserSummary], error) {
	return service.Page[service.UserSummary]{Count: len(s.users), Data: s.users}, s.err
}

func (s stubReports) Teams(context.Context, string) (service.Page[service.TeamSummary], error) {
	return service.Page[service.TeamSummary]{Count: len(s.teams), Data: s.teams}, nil
}

func (s stubReports) Events(context.Context, string) (service.Page[service.EventSummary], error) {
	return service.Page[service.EventSummary]{Count: len(s.events), Data: s.events}, nil
}

func ptr[T any](v T) *T { return &v }

func TestWrite(t *testing.T) {
	reports := stubReports{
		users: []service.UserSummary{
			{ID: "u1", Name: "Ada", Email: "ada@example.com", Events: 2, Teams: 1, Remarks: 0},
		},
		teams: []service.TeamSummary{
			{ID: "t1", Name: "rockets", EventName: ptr("Hackathon"), LeaderName: ptr("Ada"), Members: 2},
		},
		events: []service.EventSummary{
			{ID: "e1", Name: "Hackathon", Date: ptr(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)), RegisteredUsers: 3, Remark: ptr("good")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), reports, "2024_2025", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetUsers, SheetTeams, SheetEvents}, f.GetSheetList())

	rows, err := f.GetRows(SheetUsers)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, []string{"u1", "Ada", "ada@example.com", "2", "1", "0"}, rows[1])

	rows, err = f.GetRows(SheetTeams)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Hackathon", rows[1][2])
	assert.Equal(t, "", rows[1][4])

	rows, err = f.GetRows(SheetEvents)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-14", rows[1][2])
	assert.Equal(t, "good", rows[1][7])
}

func TestWriteEmptySession(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), stubReports{}, "2023_2024", &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetEvents)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteReportError(t *testing.T) {
	var buf bytes.Buffer
	err := Write(context.Background(), stubReports{err: errors.New("boom")}, "2023_2024", &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
