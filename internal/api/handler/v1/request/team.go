package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

type MemberRequest struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	PhoneNumber         string `json:"phone_number"`
	CollegeOrUniversity string `json:"college_or_university"`
	Course              string `json:"course"`
	Year                int    `json:"year"`
}

func (m MemberRequest) Validate() error {
	return validation.ValidateStruct(
		&m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.PhoneNumber, validation.Required, validation.By(validPhone)),
		validation.Field(&m.CollegeOrUniversity, validation.Required),
		validation.Field(&m.Course, validation.Required),
		validation.Field(&m.Year, validation.Required, yearRule),
	)
}

type RegisterTeamRequest struct {
	EventID  string          `json:"event_id"`
	TeamName string          `json:"team_name"`
	Members  []MemberRequest `json:"members"`
}

func (req *RegisterTeamRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.TeamName, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Members),
	)
}

func (req *RegisterTeamRequest) MemberDetails() []domain.MemberDetail {
	out := make([]domain.MemberDetail, 0, len(req.Members))
	for _, m := range req.Members {
		out = append(out, domain.MemberDetail{
			Name:                m.Name,
			Email:               m.Email,
			PhoneNumber:         m.PhoneNumber,
			CollegeOrUniversity: m.CollegeOrUniversity,
			Course:              m.Course,
			Year:                m.Year,
		})
	}

	return out
}
