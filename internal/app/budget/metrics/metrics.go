package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for budget evaluation.
type Metrics struct {
	// Evaluation latency by operation
	EvaluateLatency *prometheus.HistogramVec

	// Status outcomes: ok, warn, over
	StatusOutcome *prometheus.CounterVec

	// Pre-action decisions: allow, warn, block
	Decisions *prometheus.CounterVec

	// Store failures by store
	StoreErrors *prometheus.CounterVec
}

// New registers the budget metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		EvaluateLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fuelbudget_evaluate_duration_seconds",
			Help:    "Duration of budget evaluations by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		StatusOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelbudget_status_outcomes_total",
			Help: "Budget status evaluations by outcome",
		}, []string{"outcome"}),

		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelbudget_decisions_total",
			Help: "Pre-action budget checks by decision",
		}, []string{"decision"}),

		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelbudget_store_errors_total",
			Help: "Store failures seen while evaluating budgets",
		}, []string{"store"}),
	}
}

func (m *Metrics) ObserveEvaluateLatency(operation string, d time.Duration) {
	if m != nil {
		m.EvaluateLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementStatusOutcome(outcome string) {
	if m != nil {
		m.StatusOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(decision).Inc()
	}
}

func (m *Metrics) IncrementStoreError(store string) {
	if m != nil {
		m.StoreErrors.WithLabelValues(store).Inc()
	}
}
