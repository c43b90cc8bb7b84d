package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(EngineOperations.WithLabelValues("team.join", "conflict"))

	ObserveOperation("team.join", domain.Conflict("Team has reached max capacity"))

	after := testutil.ToFloat64(EngineOperations.WithLabelValues("team.join", "conflict"))
	assert.Equal(t, before+1, after)
}
