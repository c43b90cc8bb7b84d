// Package export writes session summaries to an Excel workbook.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ieee-synapse/synapse-api/internal/service"
)

const (
	SheetUsers  = "Users"
	SheetTeams  = "Teams"
	SheetEvents = "Events"
)

type Reports interface {
	Users(ctx context.Context, year string) (service.Page[service.UserSummary], error)
	Teams(ctx context.Context, year string) (service.Page[service.TeamSummary], error)
	Events(ctx context.Context, year string) (service.Page[service.EventSummary], error)
}

var (
	userHeader  = []any{"User ID", "Name", "Email", "Events", "Teams", "Remarks"}
	teamHeader  = []any{"Team ID", "Team", "Event", "Leader", "Leader email", "Members", "Remark"}
	eventHeader = []any{"Event ID", "Event", "Date", "Registered users", "Registered teams", "Remarked users", "Remarked teams", "Remark"}
)

func str(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format("2006-01-02")
}

// Build reads the three summaries of year into a new workbook.
func Build(ctx context.Context, reports Reports, year string) (*excelize.File, error) {
	users, err := reports.Users(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("reports.Users -> %w", err)
	}
	teams, err := reports.Teams(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("reports.Teams -> %w", err)
	}
	events, err := reports.Events(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("reports.Events -> %w", err)
	}

	userRows := make([][]any, 0, len(users.Data))
	for _, u := range users.Data {
		userRows = append(userRows, []any{u.ID, u.Name, u.Email, u.Events, u.Teams, u.Remarks})
	}
	teamRows := make([][]any, 0, len(teams.Data))
	for _, t := range teams.Data {
		teamRows = append(teamRows, []any{t.ID, t.Name, str(t.EventName), str(t.LeaderName), str(t.LeaderEmail), t.Members, str(t.Remark)})
	}
	eventRows := make([][]any, 0, len(events.Data))
	for _, e := range events.Data {
		eventRows = append(eventRows, []any{e.ID, e.Name, date(e.Date), e.RegisteredUsers, e.RegisteredTeams, e.RemarkedUsers, e.RemarkedTeams, str(e.Remark)})
	}

	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("f.NewStyle -> %w", err)
	}

	// The default sheet becomes Users so the workbook has no empty first tab.
	if err = f.SetSheetName("Sheet1", SheetUsers); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("f.SetSheetName -> %w", err)
	}
	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{SheetUsers, userHeader, userRows},
		{SheetTeams, teamHeader, teamRows},
		{SheetEvents, eventHeader, eventRows},
	}
	for _, s := range sheets {
		if err = writeSheet(f, s.name, header, s.header, s.rows); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	return f, nil
}

func writeSheet(f *excelize.File, name string, headerStyle int, header []any, rows [][]any) error {
	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("f.NewSheet -> %w", err)
		}
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("f.SetSheetRow -> %w", err)
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("f.SetRowStyle -> %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excelize.CoordinatesToCellName -> %w", err)
		}
		if err = f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("f.SetSheetRow -> %w", err)
		}
	}

	return nil
}

// Write builds the workbook and streams it to w.
func Write(ctx context.Context, reports Reports, year string, w io.Writer) error {
	f, err := Build(ctx, reports, year)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = f.Write(w); err != nil {
		return fmt.Errorf("f.Write -> %w", err)
	}

	return nil
}
