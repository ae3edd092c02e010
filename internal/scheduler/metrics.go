package scheduler

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess       = "success"
	outcomeFailure       = "failure"
	outcomeSkipped       = "skipped"
	outcomeNotConfigured = "not_configured"
)

var (
	runsTotal     *prometheus.CounterVec
	samplesStored *prometheus.CounterVec

	metricsOnce sync.Once
)

func init() {
	// Counters exist from package load so tests can run jobs without a
	// separate init step; registration with the default gatherer still
	// happens explicitly via InitMetrics.
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cor_dashboard",
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Total scheduled job runs by outcome.",
		},
		[]string{"job", "outcome"},
	)
	samplesStored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cor_dashboard",
			Subsystem: "scheduler",
			Name:      "samples_stored_total",
			Help:      "Total samples persisted by collection job.",
		},
		[]string{"job"},
	)
}

// InitMetrics registers the scheduler counters with the default
// Prometheus registry. Safe to call more than once.
func InitMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(runsTotal, samplesStored)
	})
}
