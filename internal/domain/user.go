package domain

import "time"

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

type Profile struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	PhoneNumber         string `json:"phone_number"`
	CollegeOrUniversity string `json:"college_or_university"`
	Course              string `json:"course"`
	Year                int    `json:"year"`
	Gender              Gender `json:"gender"`
	GithubProfile       string `json:"github_profile,omitempty"`
	LinkedinProfile     string `json:"linkedin_profile,omitempty"`
}

// Registration is one entry of a user's registered_event list.
type Registration struct {
	EventID      string    `json:"event_id"`
	RegisteredOn time.Time `json:"registered_on"`
	TeamID       string    `json:"team_id,omitempty"`
	Remark       *string   `json:"remark,omitempty"`
}

type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	CreatedOn        time.Time      `json:"created_on"`
	Profile          *Profile       `json:"profile,omitempty"`
	RegisteredEvents []Registration `json:"registered_event"`
}

// IsRegistered reports whether the user has moved past the sign-in stub.
func (u User) IsRegistered() bool {
	return u.Profile != nil
}

func (u User) Name() string {
	if u.Profile == nil {
		return ""
	}

	return u.Profile.Name
}

func (u User) Registration(eventID string) (Registration, bool) {
	for _, r := range u.RegisteredEvents {
		if r.EventID == eventID {
			return r, true
		}
	}

	return Registration{}, false
}

// TeamFor returns the team id of the user's registration for eventID, if any.
func (u User) TeamFor(eventID string) string {
	r, _ := u.Registration(eventID)
	return r.TeamID
}
