package experiment

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Trial outcomes, used as the "outcome" label.
const (
	OutcomeMatch    = "match"
	OutcomeFailed   = "failed"
	OutcomeMismatch = "mismatch"
	OutcomeError    = "error"
)

type metrics struct {
	trials   *prometheus.CounterVec
	duration prometheus.Histogram
}

// newMetrics registers the experiment collectors with reg. Collectors that
// are already registered are reused, so repeated runs against one registry
// accumulate. A nil reg leaves the collectors unregistered.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dualec",
			Name:      "trials_total",
			Help:      "Prediction trials by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dualec",
			Name:      "trial_duration_seconds",
			Help:      "Wall time of one generate and predict trial.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
	if reg == nil {
		return m, nil
	}

	if err := reg.Register(m.trials); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		m.trials = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.duration); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return nil, err
		}
		m.duration = are.ExistingCollector.(prometheus.Histogram)
	}
	return m, nil
}
