package domain

import (
	"slices"
	"time"
)

type EventStatus string

const (
	EventOngoing   EventStatus = "Ongoing"
	EventCompleted EventStatus = "Completed"
)

type EventType string

const (
	EventFree EventType = "Free"
	EventPaid EventType = "Paid"
)

// RegistrationCutoff is the time of day (UTC) at which last_date_to_register closes.
const (
	RegistrationCutoffHour   = 18
	RegistrationCutoffMinute = 30
)

type Event struct {
	ID                 string       `json:"event_id"`
	Name               string       `json:"event_name"`
	Description        *string      `json:"event_description"`
	Date               *time.Time   `json:"event_date"`
	Time               *string      `json:"event_time"`
	Duration           *string      `json:"event_duration"`
	LastDateToRegister *time.Time   `json:"last_date_to_register"`
	Capacity           *int         `json:"event_capacity"`
	Type               *EventType   `json:"event_type"`
	TeamAllowed        bool         `json:"event_team_allowed"`
	TeamSize           int          `json:"event_team_size"`
	Venue              *string      `json:"venue"`
	PersonInCharge     *string      `json:"person_incharge"`
	Status             *EventStatus `json:"event_status"`
	Prizes             *string      `json:"event_prizes"`
	ThumbnailID        *string      `json:"event_thumbnail_id"`
	Remark             *string      `json:"remark,omitempty"`
	CreatedOn          time.Time    `json:"created_on"`

	RegisteredUsers []string `json:"registered_user"`
	// RegisteredTeams is nil when the event does not allow teams.
	RegisteredTeams []string `json:"registered_team"`
	RemarkedUsers   []string `json:"remarked_user"`
	RemarkedTeams   []string `json:"remarked_team"`
}

func (e Event) IsCompleted() bool {
	return e.Status != nil && *e.Status == EventCompleted
}

func (e Event) HasUser(userID string) bool {
	return slices.Contains(e.RegisteredUsers, userID)
}

func (e Event) HasTeam(teamID string) bool {
	return slices.Contains(e.RegisteredTeams, teamID)
}

func (e Event) HasRemarkedUser(userID string) bool {
	return slices.Contains(e.RemarkedUsers, userID)
}

// MaxMembers is the number of joiners a team may hold, excluding the leader.
func (e Event) MaxMembers() int {
	return max(e.TeamSize-1, 0)
}

// Deadline returns the instant registration closes, or false when there is none.
func (e Event) Deadline() (time.Time, bool) {
	if e.LastDateToRegister == nil {
		return time.Time{}, false
	}
	d := e.LastDateToRegister.UTC()

	return time.Date(d.Year(), d.Month(), d.Day(), RegistrationCutoffHour, RegistrationCutoffMinute, 0, 0, time.UTC), true
}

// EventPatch carries the fields of an event update. Nil means unchanged.
type EventPatch struct {
	Name               *string
	Description        *string
	Date               *time.Time
	Time               *string
	Duration           *string
	LastDateToRegister *time.Time
	Capacity           *int
	Type               *EventType
	TeamAllowed        *bool
	TeamSize           *int
	Venue              *string
	PersonInCharge     *string
	Status             *EventStatus
	Prizes             *string
	ThumbnailID        *string

	// ResetTeams replaces registered_team with an empty set.
	ResetTeams bool
	// DropTeams unsets registered_team and remarked_team.
	DropTeams bool
}
