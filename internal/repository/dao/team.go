package dao

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MemberDetail struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	PhoneNumber         string `json:"phone_number"`
	CollegeOrUniversity string `json:"college_or_university"`
	Course              string `json:"course"`
	Year                int    `json:"year"`
}

type Team struct {
	ID            string                            `gorm:"primaryKey"`
	EventID       string                            `gorm:"not null"`
	TeamName      string                            `gorm:"not null"`
	TeamCode      string                            `gorm:"not null"`
	LeaderID      string                            `gorm:"not null"`
	Members       pq.StringArray                    `gorm:"type:text[];not null"`
	MemberDetails datatypes.JSONSlice[MemberDetail] `gorm:"type:jsonb;not null"`
	RegisteredOn  time.Time                         `gorm:"not null"`
	Remark        *string
}

type TeamDAO struct {
	db     *gorm.DB
	schema string
}

func NewTeamDAO(db *gorm.DB, schema string) *TeamDAO {
	return &TeamDAO{
		db:     db,
		schema: schema,
	}
}

func (d *TeamDAO) table(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Table(dotted(d.schema, "team"))
}

func (d *TeamDAO) quoted() string {
	return quoted(d.schema, "team")
}

func (d *TeamDAO) Insert(ctx context.Context, team Team) (Team, error) {
	if team.Members == nil {
		team.Members = pq.StringArray{}
	}
	if team.MemberDetails == nil {
		team.MemberDetails = datatypes.JSONSlice[MemberDetail]{}
	}

	result := d.table(ctx).Create(&team)
	if result.Error != nil {
		if name := uniqueViolation(result.Error); name != "" {
			if constraintIs(name, "team_event_code_key") {
				return Team{}, ErrTeamCodeTaken
			}
			return Team{}, ErrTeamNameTaken
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *TeamDAO) first(ctx context.Context, query string, args ...any) (Team, error) {
	var team Team

	result := d.table(ctx).Where(query, args...).Take(&team)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Team{}, ErrTeamNotFound
		}

		return Team{}, result.Error
	}

	return team, nil
}

func (d *TeamDAO) FindByID(ctx context.Context, id string) (Team, error) {
	return d.first(ctx, "id = ?", id)
}

func (d *TeamDAO) FindByCode(ctx context.Context, eventID, code string) (Team, error) {
	return d.first(ctx, "event_id = ? AND team_code = ?", eventID, code)
}

func (d *TeamDAO) FindByName(ctx context.Context, eventID, name string) (Team, error) {
	return d.first(ctx, "event_id = ? AND team_name = ?", eventID, name)
}

func (d *TeamDAO) CodeExists(ctx context.Context, eventID, code string) (bool, error) {
	var n int64

	result := d.table(ctx).Where("event_id = ? AND team_code = ?", eventID, code).Count(&n)
	if result.Error != nil {
		return false, result.Error
	}

	return n > 0, nil
}

func (d *TeamDAO) FindMany(ctx context.Context, ids []string) ([]Team, error) {
	var teams []Team
	if len(ids) == 0 {
		return teams, nil
	}

	result := d.table(ctx).Where("id IN ?", ids).Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

func (d *TeamDAO) ListByEvent(ctx context.Context, eventID string) ([]Team, error) {
	var teams []Team

	result := d.table(ctx).Where("event_id = ?", eventID).Order("registered_on").Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

func (d *TeamDAO) List(ctx context.Context) ([]Team, error) {
	var teams []Team

	result := d.table(ctx).Order("registered_on").Find(&teams)
	if result.Error != nil {
		return nil, result.Error
	}

	return teams, nil
}

// AddMember appends userID when the team is below maxMembers and does not
// already list the user, in one statement.
func (d *TeamDAO) AddMember(ctx context.Context, id, userID string, maxMembers int) error {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE `+d.quoted()+` SET members = array_append(members, ?::text)
		WHERE id = ? AND leader_id <> ? AND NOT (?::text = ANY(members)) AND cardinality(members) < ?`,
		userID, id, userID, userID, maxMembers,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	team, err := d.FindByID(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range team.Members {
		if m == userID {
			return ErrAlreadyMember
		}
	}
	if team.LeaderID == userID {
		return ErrAlreadyMember
	}

	return ErrTeamFull
}

func (d *TeamDAO) RemoveMember(ctx context.Context, id, userID string) error {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE `+d.quoted()+` SET members = array_remove(members, ?::text) WHERE id = ?`,
		userID, id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}

	return nil
}

func (d *TeamDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Exec(`DELETE FROM `+d.quoted()+` WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}

	return nil
}

func (d *TeamDAO) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	result := d.db.WithContext(ctx).Exec(`DELETE FROM `+d.quoted()+` WHERE event_id = ?`, eventID)

	return result.RowsAffected, result.Error
}

func (d *TeamDAO) SetRemark(ctx context.Context, id string, remark *string) error {
	result := d.table(ctx).Where("id = ?", id).Update("remark", remark)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}

	return nil
}
