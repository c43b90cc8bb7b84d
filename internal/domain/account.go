package domain

import "time"

// Issuer records which superadmin created an admin account.
type Issuer struct {
	SuperID    string `json:"super_id"`
	SuperEmail string `json:"super_email"`
}

// Account is an admin or superadmin credential record.
type Account struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Team                string    `json:"team"`
	Role                string    `json:"role"`
	PhoneNumber         string    `json:"phone_number"`
	CollegeOrUniversity string    `json:"college_or_university"`
	Course              string    `json:"course"`
	Year                int       `json:"year"`
	Gender              Gender    `json:"gender"`
	GithubProfile       string    `json:"github_profile,omitempty"`
	LinkedinProfile     string    `json:"linkedin_profile,omitempty"`
	CreatedOn           time.Time `json:"created_on"`
	CreatedBy           *Issuer   `json:"created_by,omitempty"`
}
