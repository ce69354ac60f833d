// Package observability exposes Prometheus instrumentation for the sync and
// execution paths.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors the core components report into.
type Metrics struct {
	// SyncTotal counts sync attempts by outcome: live, retained, fallback,
	// stale (discarded response) or terminal.
	SyncTotal *prometheus.CounterVec

	// SyncDuration observes how long a full sync pass takes.
	SyncDuration prometheus.Histogram

	// ExecutionTotal counts action executions by outcome: confirmed,
	// simulated or rejected.
	ExecutionTotal *prometheus.CounterVec

	// BreakerState reflects the source circuit breaker (0=closed, 1=open).
	BreakerState prometheus.Gauge
}

// NewMetrics registers the collectors with reg. Passing nil wires them to a
// throwaway registry, which keeps instrumentation optional in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		SyncTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_sync_total",
			Help: "Total number of sync passes by outcome.",
		}, []string{"outcome"}),

		SyncDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_sync_duration_seconds",
			Help:    "Duration of sync passes.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),

		ExecutionTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_executions_total",
			Help: "Total number of action executions by outcome.",
		}, []string{"outcome"}),

		BreakerState: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_source_breaker_open",
			Help: "State of the snapshot source circuit breaker (0=closed, 1=open).",
		}),
	}
}
