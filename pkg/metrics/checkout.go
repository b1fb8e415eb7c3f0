package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout attempt outcomes and latency.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// Outcome labels reported per checkout attempt.
const (
	OutcomeSuccess    = "success"
	OutcomeEmptyCart  = "empty_cart"
	OutcomeOutOfStock = "out_of_stock"
	OutcomeConflict   = "concurrency_conflict"
	OutcomeFailure    = "failure"
)

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts partitioned by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes)
	return &CheckoutMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// Observe records one checkout attempt with its outcome and duration.
func (c *CheckoutMetrics) Observe(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	if c.outcomes != nil {
		c.outcomes.WithLabelValues(outcome).Inc()
	}
	if c.duration != nil {
		c.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	}
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
