// Package googleauth verifies Google ID tokens presented at sign-in.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var ErrNoEmail = errors.New("token carries no verified email")

type Verifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}
}

// Verify returns the lower-cased email of a valid token.
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return "", fmt.Errorf("idtoken.Validate -> %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if verified, ok := payload.Claims["email_verified"].(bool); email == "" || (ok && !verified) {
		return "", ErrNoEmail
	}

	return strings.ToLower(email), nil
}
