package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Profile struct {
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	PhoneNumber         string  `json:"phone_number"`
	CollegeOrUniversity string  `json:"college_or_university"`
	Course              string  `json:"course"`
	Year                int     `json:"year"`
	Gender              string  `json:"gender"`
	GithubProfile       *string `json:"github_profile,omitempty"`
	LinkedinProfile     *string `json:"linkedin_profile,omitempty"`
}

type Registration struct {
	EventID      string    `json:"event_id"`
	RegisteredOn time.Time `json:"registered_on"`
	TeamID       *string   `json:"team_id,omitempty"`
	Remark       *string   `json:"remark,omitempty"`
}

type User struct {
	ID              string                           `gorm:"primaryKey"`
	Email           string                           `gorm:"unique;not null"`
	CreatedOn       time.Time                        `gorm:"not null"`
	Profile         datatypes.JSON                   `gorm:"type:jsonb"`
	RegisteredEvent datatypes.JSONSlice[Registration] `gorm:"type:jsonb;not null"`
}

type UserDAO struct {
	db     *gorm.DB
	schema string
}

func NewUserDAO(db *gorm.DB, schema string) *UserDAO {
	return &UserDAO{
		db:     db,
		schema: schema,
	}
}

func (d *UserDAO) table(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Table(dotted(d.schema, "user"))
}

func (d *UserDAO) quoted() string {
	return quoted(d.schema, "user")
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	if user.RegisteredEvent == nil {
		user.RegisteredEvent = datatypes.JSONSlice[Registration]{}
	}

	result := d.table(ctx).Create(&user)
	if result.Error != nil {
		if uniqueViolation(result.Error) != "" {
			return User{}, ErrEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) first(ctx context.Context, query string, args ...any) (User, error) {
	var user User

	result := d.table(ctx).Where(query, args...).Take(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id string) (User, error) {
	return d.first(ctx, "id = ?", id)
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	return d.first(ctx, "email = ?", email)
}

func (d *UserDAO) FindByIDAndEmail(ctx context.Context, id, email string) (User, error) {
	return d.first(ctx, "id = ? AND email = ?", id, email)
}

func (d *UserDAO) FindMany(ctx context.Context, ids []string) ([]User, error) {
	var users []User
	if len(ids) == 0 {
		return users, nil
	}

	result := d.table(ctx).Where("id IN ?", ids).Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) List(ctx context.Context) ([]User, error) {
	var users []User

	result := d.table(ctx).Order("created_on").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// ListRegisteredFor returns users whose registration list references eventID.
func (d *UserDAO) ListRegisteredFor(ctx context.Context, eventID string) ([]User, error) {
	var users []User

	result := d.table(ctx).
		Where("registered_event @> jsonb_build_array(jsonb_build_object('event_id', ?::text))", eventID).
		Order("created_on").
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) UpdateProfile(ctx context.Context, id string, profile datatypes.JSON) error {
	result := d.table(ctx).Where("id = ?", id).Update("profile", profile)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// PushRegistration appends reg unless an entry for the same event already exists.
func (d *UserDAO) PushRegistration(ctx context.Context, id string, reg datatypes.JSON, eventID string) error {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE `+d.quoted()+`
		SET registered_event = COALESCE(registered_event, '[]'::jsonb) || jsonb_build_array(?::jsonb)
		WHERE id = ? AND NOT COALESCE(registered_event, '[]'::jsonb) @> jsonb_build_array(jsonb_build_object('event_id', ?::text))`,
		string(reg), id, eventID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyRegistered
	}

	return nil
}

const pullRegistration = `COALESCE((
	SELECT jsonb_agg(r.e ORDER BY r.o)
	FROM jsonb_array_elements(registered_event) WITH ORDINALITY AS r(e, o)
	WHERE r.e->>'event_id' <> ?
), '[]'::jsonb)`

func (d *UserDAO) PullRegistration(ctx context.Context, id, eventID string) error {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE `+d.quoted()+` SET registered_event = `+pullRegistration+` WHERE id = ?`,
		eventID, id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (d *UserDAO) PullRegistrationFromAll(ctx context.Context, eventID string) (int64, error) {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE `+d.quoted()+` SET registered_event = `+pullRegistration+`
		WHERE registered_event @> jsonb_build_array(jsonb_build_object('event_id', ?::text))`,
		eventID, eventID,
	)

	return result.RowsAffected, result.Error
}

// rewriteEntry applies expr to the registration entry of eventID, leaving others untouched.
func rewriteEntry(expr string) string {
	return `COALESCE((
		SELECT jsonb_agg(CASE WHEN r.e->>'event_id' = ? THEN ` + expr + ` ELSE r.e END ORDER BY r.o)
		FROM jsonb_array_elements(registered_event) WITH ORDINALITY AS r(e, o)
	), '[]'::jsonb)`
}

const hasEntry = `registered_event @> jsonb_build_array(jsonb_build_object('event_id', ?::text))`

func (d *UserDAO) SetRegistrationTeam(ctx context.Context, id, eventID string, teamID *string) error {
	var result *gorm.DB
	if teamID == nil {
		result = d.db.WithContext(ctx).Exec(
			`UPDATE `+d.quoted()+` SET registered_event = `+rewriteEntry(`r.e - 'team_id'`)+` WHERE id = ? AND `+hasEntry,
			eventID, id, eventID,
		)
	} else {
		result = d.db.WithContext(ctx).Exec(
			`UPDATE `+d.quoted()+` SET registered_event = `+rewriteEntry(`r.e || jsonb_build_object('team_id', ?::text)`)+` WHERE id = ? AND `+hasEntry,
			eventID, *teamID, id, eventID,
		)
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ClearTeamForEvent strips team_id from every registration entry for eventID.
func (d *UserDAO) ClearTeamForEvent(ctx context.Context, eventID string) (int64, error) {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE `+d.quoted()+` SET registered_event = `+rewriteEntry(`r.e - 'team_id'`)+` WHERE `+hasEntry,
		eventID, eventID,
	)

	return result.RowsAffected, result.Error
}

func (d *UserDAO) SetRegistrationRemark(ctx context.Context, id, eventID string, remark *string) error {
	var result *gorm.DB
	if remark == nil {
		result = d.db.WithContext(ctx).Exec(
			`UPDATE `+d.quoted()+` SET registered_event = `+rewriteEntry(`r.e - 'remark'`)+` WHERE id = ? AND `+hasEntry,
			eventID, id, eventID,
		)
	} else {
		result = d.db.WithContext(ctx).Exec(
			`UPDATE `+d.quoted()+` SET registered_event = `+rewriteEntry(`r.e || jsonb_build_object('remark', ?::text)`)+` WHERE id = ? AND `+hasEntry,
			eventID, *remark, id, eventID,
		)
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
