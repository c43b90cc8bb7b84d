package request

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

// phonePattern accepts digits, spaces and dashes with an optional leading plus,
// as long as 10 to 15 digits are present in total.
const phonePattern = `^(?=(?:\D*\d){10,15}\D*$)\+?[\d\s-]+$`

var (
	phoneExp = regexp2.MustCompile(phonePattern, regexp2.None)

	errInvalidPhone = errors.New("must be a phone number with 10 to 15 digits")
)

func validPhone(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	ok, err := phoneExp.MatchString(s)
	if err != nil || !ok {
		return errInvalidPhone
	}

	return nil
}

var (
	yearRule   = validation.In(1, 2, 3, 4)
	genderRule = validation.In(domain.GenderMale, domain.GenderFemale, domain.GenderOther)
)

type ProfileRequest struct {
	Name                string        `json:"name"`
	Email               string        `json:"email"`
	PhoneNumber         string        `json:"phone_number"`
	CollegeOrUniversity string        `json:"college_or_university"`
	Course              string        `json:"course"`
	Year                int           `json:"year"`
	Gender              domain.Gender `json:"gender"`
	GithubProfile       string        `json:"github_profile"`
	LinkedinProfile     string        `json:"linkedin_profile"`
}

func (req *ProfileRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.PhoneNumber, validation.Required, validation.By(validPhone)),
		validation.Field(&req.CollegeOrUniversity, validation.Required),
		validation.Field(&req.Course, validation.Required),
		validation.Field(&req.Year, validation.Required, yearRule),
		validation.Field(&req.Gender, validation.Required, genderRule),
		validation.Field(&req.GithubProfile, is.URL),
		validation.Field(&req.LinkedinProfile, is.URL),
	)
}

func (req *ProfileRequest) ToProfile() domain.Profile {
	return domain.Profile{
		Name:                strings.TrimSpace(req.Name),
		Email:               strings.TrimSpace(req.Email),
		PhoneNumber:         strings.TrimSpace(req.PhoneNumber),
		CollegeOrUniversity: strings.TrimSpace(req.CollegeOrUniversity),
		Course:              strings.TrimSpace(req.Course),
		Year:                req.Year,
		Gender:              req.Gender,
		GithubProfile:       req.GithubProfile,
		LinkedinProfile:     req.LinkedinProfile,
	}
}

type CreateAdminRequest struct {
	ProfileRequest
	Team string `json:"team"`
	Role string `json:"role"`
}

func (req *CreateAdminRequest) Validate() error {
	if err := req.ProfileRequest.Validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Team, validation.Required),
		validation.Field(&req.Role, validation.Required),
	)
}

func (req *CreateAdminRequest) ToAccount() domain.Account {
	p := req.ToProfile()

	return domain.Account{
		Email:               p.Email,
		Name:                p.Name,
		Team:                strings.TrimSpace(req.Team),
		Role:                strings.TrimSpace(req.Role),
		PhoneNumber:         p.PhoneNumber,
		CollegeOrUniversity: p.CollegeOrUniversity,
		Course:              p.Course,
		Year:                p.Year,
		Gender:              p.Gender,
		GithubProfile:       p.GithubProfile,
		LinkedinProfile:     p.LinkedinProfile,
	}
}
