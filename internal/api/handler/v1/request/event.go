package request

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

const dateLayout = "2006-01-02"

var timeLayouts = []string{"15:04", "15:04:05"}

var errInvalidTime = errors.New("must be a time in HH:MM or HH:MM:SS")

// EventForm is the multipart body of event create and update. The image part is
// read separately.
type EventForm struct {
	Name               *string `form:"event_name"`
	Description        *string `form:"event_description"`
	Date               *string `form:"event_date"`
	Time               *string `form:"event_time"`
	Duration           *string `form:"duration"`
	LastDateToRegister *string `form:"last_date_to_register"`
	Capacity           *int    `form:"event_capacity"`
	Type               *string `form:"event_type"`
	TeamAllowed        *bool   `form:"event_team_allowed"`
	TeamSize           *int    `form:"event_team_size"`
	Venue              *string `form:"venue"`
	PersonInCharge     *string `form:"person_incharge"`
	Status             *string `form:"event_status"`
	Prizes             *string `form:"event_prizes"`
}

func validDate(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if _, err := time.Parse(dateLayout, *s); err != nil {
		return fmt.Errorf("must be a date in YYYY-MM-DD")
	}

	return nil
}

func validTime(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if _, err := parseTime(*s); err != nil {
		return err
	}

	return nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errInvalidTime
}

func (req *EventForm) validate(nameRequired bool) error {
	nameRules := []validation.Rule{validation.NilOrNotEmpty}
	if nameRequired {
		nameRules = append(nameRules, validation.Required)
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, nameRules...),
		validation.Field(&req.Date, validation.By(validDate)),
		validation.Field(&req.Time, validation.By(validTime)),
		validation.Field(&req.LastDateToRegister, validation.By(validDate)),
		validation.Field(&req.Capacity, validation.Min(0)),
		validation.Field(&req.Type, validation.In(string(domain.EventFree), string(domain.EventPaid))),
		validation.Field(&req.TeamSize, validation.Min(0)),
		validation.Field(&req.Status, validation.In(string(domain.EventOngoing), string(domain.EventCompleted))),
	)
}

// ValidateCreate requires event_name.
func (req *EventForm) ValidateCreate() error {
	return req.validate(true)
}

func (req *EventForm) ValidateUpdate() error {
	return req.validate(false)
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}

	return &t
}

func normalizeTime(s *string) *string {
	if s == nil {
		return nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil
	}
	v := t.Format("15:04:05")

	return &v
}

func typeOf(s *string) *domain.EventType {
	if s == nil {
		return nil
	}
	v := domain.EventType(*s)

	return &v
}

func statusOf(s *string) *domain.EventStatus {
	if s == nil {
		return nil
	}
	v := domain.EventStatus(*s)

	return &v
}

func (req *EventForm) ToEvent() domain.Event {
	e := domain.Event{
		Description:        req.Description,
		Date:               parseDate(req.Date),
		Time:               normalizeTime(req.Time),
		Duration:           req.Duration,
		LastDateToRegister: parseDate(req.LastDateToRegister),
		Capacity:           req.Capacity,
		Type:               typeOf(req.Type),
		Venue:              req.Venue,
		PersonInCharge:     req.PersonInCharge,
		Status:             statusOf(req.Status),
		Prizes:             req.Prizes,
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.TeamAllowed != nil {
		e.TeamAllowed = *req.TeamAllowed
	}
	if req.TeamSize != nil {
		e.TeamSize = *req.TeamSize
	}

	return e
}

func (req *EventForm) ToPatch() domain.EventPatch {
	return domain.EventPatch{
		Name:               req.Name,
		Description:        req.Description,
		Date:               parseDate(req.Date),
		Time:               normalizeTime(req.Time),
		Duration:           req.Duration,
		LastDateToRegister: parseDate(req.LastDateToRegister),
		Capacity:           req.Capacity,
		Type:               typeOf(req.Type),
		TeamAllowed:        req.TeamAllowed,
		TeamSize:           req.TeamSize,
		Venue:              req.Venue,
		PersonInCharge:     req.PersonInCharge,
		Status:             statusOf(req.Status),
		Prizes:             req.Prizes,
	}
}
