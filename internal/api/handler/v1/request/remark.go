package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

func remarkRules(required bool) []validation.Rule {
	if !required {
		return nil
	}

	return []validation.Rule{validation.Required, validation.Length(1, 2000)}
}

// UserRemarkQuery addresses a user's registration for an event.
type UserRemarkQuery struct {
	EventID   string `form:"event_id"`
	UserID    string `form:"user_id"`
	UserEmail string `form:"user_email"`
	Remark    string `form:"remark"`
}

func (req *UserRemarkQuery) Validate(withRemark bool) error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.UserEmail, validation.Required, is.Email),
		validation.Field(&req.Remark, remarkRules(withRemark)...),
	)
}

type EventRemarkQuery struct {
	EventID string `form:"event_id"`
	Remark  string `form:"remark"`
}

func (req *EventRemarkQuery) Validate(withRemark bool) error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Remark, remarkRules(withRemark)...),
	)
}

type TeamRemarkQuery struct {
	TeamID string `form:"team_id"`
	Remark string `form:"remark"`
}

func (req *TeamRemarkQuery) Validate(withRemark bool) error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TeamID, validation.Required),
		validation.Field(&req.Remark, remarkRules(withRemark)...),
	)
}
