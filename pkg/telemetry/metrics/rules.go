package metrics

import (
	"mercator-hq/verdict/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks rule lifecycle and evaluation.
//
// Metrics:
//   - verdict_rules_created_total: Rules appended to the store by origin
//   - verdict_rules_combined_total: Combine operations
//   - verdict_rules_discarded_total: Input rules dropped by combine
//   - verdict_evaluations_total: Evaluations by result
//   - verdict_evaluation_duration_seconds: Evaluation duration histogram
//   - verdict_evaluation_errors_total: Failed evaluations by error kind
type RuleMetrics struct {
	created   *prometheus.CounterVec
	combined  prometheus.Counter
	discarded prometheus.Counter

	evaluations        *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	evaluationErrors   *prometheus.CounterVec
}

// NewRuleMetrics creates and registers rule metrics with the provided registry.
func NewRuleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		created: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rules_created_total",
				Help:      "Total number of rules appended to the store",
			},
			[]string{"origin"},
		),

		combined: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rules_combined_total",
				Help:      "Total number of combine operations",
			},
		),

		discarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rules_discarded_total",
				Help:      "Total number of input rules dropped by combine",
			},
		),

		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluations_total",
				Help:      "Total number of successful evaluations",
			},
			[]string{"result"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of rule evaluations in seconds",
				// Evaluations are in-memory tree walks (1µs - 10ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 9),
			},
		),

		evaluationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "evaluation_errors_total",
				Help:      "Total number of failed evaluations",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		rm.created,
		rm.combined,
		rm.discarded,
		rm.evaluations,
		rm.evaluationDuration,
		rm.evaluationErrors,
	)

	return rm
}
