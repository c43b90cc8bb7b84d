package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

type fakeLister struct {
	partitions map[domain.SessionID]bool
	admins     map[domain.SessionID]bool
}

func (f fakeLister) PartitionExists(_ context.Context, id domain.SessionID) (bool, error) {
	return f.partitions[id], nil
}

func (f fakeLister) AdminSessionExists(_ context.Context, id domain.SessionID) (bool, error) {
	return f.admins[id], nil
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want domain.SessionID
	}{
		{"january", time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC), "2024_2025"},
		{"june 30", time.Date(2025, time.June, 30, 23, 59, 0, 0, time.UTC), "2024_2025"},
		{"july 1", time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), "2025_2026"},
		{"december", time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), "2025_2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Current(tt.now))
		})
	}
}

func TestCurrent_BoundaryIncrementsEndYear(t *testing.T) {
	for year := 2000; year < 2040; year++ {
		before := Current(time.Date(year, time.June, 30, 12, 0, 0, 0, time.UTC))
		after := Current(time.Date(year, time.July, 1, 12, 0, 0, 0, time.UTC))

		assert.Equal(t, before.EndYear()+1, after.EndYear())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		candidate string
		wantErr   bool
	}{
		{"2024_2025", false},
		{" 2024_2025 ", false},
		{"2024-2025", true},
		{"2024_2026", true},
		{"24_25", true},
		{"credentials", true},
		{"admin_2024_2025", true},
	}
	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			_, err := Parse(tt.candidate)
			if tt.wantErr {
				assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExpiresAt(t *testing.T) {
	assert.Equal(t, time.Date(2025, time.June, 30, 18, 30, 0, 0, time.UTC), ExpiresAt("2024_2025"))
}

func TestResolver_Validate(t *testing.T) {
	r := NewResolver(fakeLister{
		partitions: map[domain.SessionID]bool{"2023_2024": true},
		admins:     map[domain.SessionID]bool{"2024_2025": true},
	}, WithClock(func() time.Time { return time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC) }))

	assert.Equal(t, domain.SessionID("2024_2025"), r.Current())

	got, err := r.Validate(context.Background(), "2023_2024")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionID("2023_2024"), got)

	_, err = r.Validate(context.Background(), "2020_2021")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = r.Validate(context.Background(), "bogus")
	assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))

	_, err = r.ValidateAdmins(context.Background(), "2024_2025")
	assert.NoError(t, err)

	_, err = r.ValidateAdmins(context.Background(), "2023_2024")
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
