package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

var (
	EngineOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "synapse", Name: "engine_operations_total", Help: "Registration engine operations by outcome",
	}, []string{"op", "outcome"})
	PartitionsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "synapse", Name: "report_partitions_skipped_total", Help: "Partitions skipped while building cross-session reports",
	})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "synapse", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(EngineOperations, PartitionsSkipped, HTTPDuration)
}

func Handler() http.Handler { return promhttp.Handler() }

// ObserveOperation counts op under "ok" or the error's kind.
func ObserveOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	EngineOperations.WithLabelValues(op, outcome).Inc()
}

func ObserveRequest(method, route, status string, d time.Duration) {
	HTTPDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
