package domain

import (
	"slices"
	"time"
)

// MemberDetail is contact data captured when a team is created.
type MemberDetail struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	PhoneNumber         string `json:"phone_number"`
	CollegeOrUniversity string `json:"college_or_university"`
	Course              string `json:"course"`
	Year                int    `json:"year"`
}

type Team struct {
	ID            string         `json:"team_id"`
	EventID       string         `json:"event_id"`
	Name          string         `json:"team_name"`
	Code          string         `json:"team_code"`
	LeaderID      string         `json:"leader_id"`
	Members       []string       `json:"members"`
	MemberDetails []MemberDetail `json:"member_details"`
	RegisteredOn  time.Time      `json:"registered_on"`
	Remark        *string        `json:"remark,omitempty"`
}

func (t Team) IsLeader(userID string) bool {
	return t.LeaderID == userID
}

func (t Team) HasMember(userID string) bool {
	return slices.Contains(t.Members, userID)
}
