package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the lifecycle engine.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	TransitionsTotal      *prometheus.CounterVec
	TransitionDuration    prometheus.Histogram
	AccountsProvisioned   prometheus.Counter
}

// New creates and registers all lifecycle metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardpost_applications_submitted_total",
			Help: "Total applications received through intake",
		}),
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardpost_transitions_total",
			Help: "Transition requests by outcome and target status",
		}, []string{"outcome", "to_status"}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "guardpost_transition_duration_seconds",
			Help:    "Latency of RequestTransition",
			Buckets: prometheus.DefBuckets,
		}),
		AccountsProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "guardpost_accounts_provisioned_total",
			Help: "Accounts created for applicants reaching active",
		}),
	}
}

// ObserveTransition records one transition request outcome.
func (m *Metrics) ObserveTransition(outcome, toStatus string, elapsed time.Duration) {
	m.TransitionsTotal.WithLabelValues(outcome, toStatus).Inc()
	m.TransitionDuration.Observe(elapsed.Seconds())
}
