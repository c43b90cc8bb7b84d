package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SignInRequest struct {
	Token string `json:"token"`
}

func (req *SignInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Token, validation.Required),
	)
}
