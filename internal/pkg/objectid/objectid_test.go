package objectid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a, b := New(), New()

	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
	assert.True(t, IsValid(a))
}

func TestNewAt_Timestamp(t *testing.T) {
	id := NewAt(time.Unix(0x65000000, 0))

	assert.Equal(t, "65000000", id[:8])
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid", "65a1f0c2e4b0a1b2c3d4e5f6", true},
		{"too short", "65a1f0c2", false},
		{"not hex", "zza1f0c2e4b0a1b2c3d4e5f6", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.id))
		})
	}
}
