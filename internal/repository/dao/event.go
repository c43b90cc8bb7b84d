package dao

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Event struct {
	ID                 string `gorm:"primaryKey"`
	EventName          string `gorm:"not null"`
	EventDescription   *string
	EventDate          *time.Time `gorm:"type:date"`
	EventTime          *string
	EventDuration      *string
	LastDateToRegister *time.Time `gorm:"type:date"`
	EventCapacity      *int
	EventType          *string
	EventTeamAllowed   bool `gorm:"not null"`
	EventTeamSize      int  `gorm:"not null"`
	Venue              *string
	PersonIncharge     *string `gorm:"column:person_incharge"`
	EventStatus        *string
	EventPrizes        *string
	EventThumbnailID   *string
	Remark             *string
	RegisteredUser     pq.StringArray `gorm:"type:text[];not null"`
	RegisteredTeam     pq.StringArray `gorm:"type:text[]"`
	RemarkedUser       pq.StringArray `gorm:"type:text[];not null"`
	RemarkedTeam       pq.StringArray `gorm:"type:text[]"`
	CreatedOn          time.Time      `gorm:"not null"`
}

type EventDAO struct {
	db     *gorm.DB
	schema string
}

func NewEventDAO(db *gorm.DB, schema string) *EventDAO {
	return &EventDAO{
		db:     db,
		schema: schema,
	}
}

func (d *EventDAO) table(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Table(dotted(d.schema, "event"))
}

func (d *EventDAO) quoted() string {
	return quoted(d.schema, "event")
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if event.RegisteredUser == nil {
		event.RegisteredUser = pq.StringArray{}
	}
	if event.RemarkedUser == nil {
		event.RemarkedUser = pq.StringArray{}
	}

	result := d.table(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id string) (Event, error) {
	var event Event

	result := d.table(ctx).Where("id = ?", id).Take(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindMany(ctx context.Context, ids []string) ([]Event, error) {
	var events []Event
	if len(ids) == 0 {
		return events, nil
	}

	result := d.table(ctx).Where("id IN ?", ids).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) List(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.table(ctx).Order("created_on").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// Update writes the given columns. A nil value stores NULL.
func (d *EventDAO) Update(ctx context.Context, id string, columns map[string]any) error {
	if len(columns) == 0 {
		_, err := d.FindByID(ctx, id)
		return err
	}

	result := d.table(ctx).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Exec(`DELETE FROM `+d.quoted()+` WHERE id = ?`, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// AddToSet appends value to an array column unless already present.
func (d *EventDAO) AddToSet(ctx context.Context, id, column, value string) error {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE `+d.quoted()+` SET `+column+` = array_append(COALESCE(`+column+`, '{}'), ?::text)
		WHERE id = ? AND NOT (?::text = ANY(COALESCE(`+column+`, '{}')))`,
		value, id, value,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		_, err := d.FindByID(ctx, id)
		return err
	}

	return nil
}

// Pull removes value from an array column. NULL columns stay NULL.
func (d *EventDAO) Pull(ctx context.Context, id, column, value string) error {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE `+d.quoted()+` SET `+column+` = array_remove(`+column+`, ?::text) WHERE id = ?`,
		value, id,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
