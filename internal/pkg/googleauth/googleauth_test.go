package googleauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier("client")

	v.validate = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		assert.Equal(t, "client", audience)
		return &idtoken.Payload{Claims: map[string]any{"email": "Ada@Example.com", "email_verified": true}}, nil
	}
	email, err := v.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)

	v.validate = func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Claims: map[string]any{"email": "a@example.com", "email_verified": false}}, nil
	}
	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrNoEmail)

	v.validate = func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("bad signature")
	}
	_, err = v.Verify(context.Background(), "tok")
	assert.Error(t, err)
}
