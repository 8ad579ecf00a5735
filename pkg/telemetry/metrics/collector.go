package metrics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"mercator-hq/verdict/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every verdict metric and the registry they live in. A
// collector built from a disabled config records nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	ruleMetrics    *RuleMetrics
	requestMetrics *RequestMetrics

	storeGauge sync.Once

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a collector registering on registry. A nil registry
// gets a fresh private one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNS
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.ruleMetrics = NewRuleMetrics(cfg, registry)
	c.requestMetrics = NewRequestMetrics(cfg, registry)

	return c
}

// RuleCreated records a rule appended to the store. origin is api, file or
// import.
func (c *Collector) RuleCreated(origin string) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.created.WithLabelValues(origin).Inc()
}

// RulesCombined records a combine call and how many input rules it dropped.
func (c *Collector) RulesCombined(discarded int) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.combined.Inc()
	if discarded > 0 {
		c.ruleMetrics.discarded.Add(float64(discarded))
	}
}

// RecordEvaluation records a successful evaluation.
func (c *Collector) RecordEvaluation(result bool, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.evaluations.WithLabelValues(strconv.FormatBool(result)).Inc()
	c.ruleMetrics.evaluationDuration.Observe(duration.Seconds())
}

// RecordEvaluationError records a failed evaluation by error kind.
func (c *Collector) RecordEvaluationError(kind string) {
	if !c.config.Enabled {
		return
	}
	c.ruleMetrics.evaluationErrors.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records a served HTTP request. route is the matched mux
// pattern; unmatched requests should pass "unmatched".
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	if !c.cardinalityLimiter.Allow(fmt.Sprintf("%s:%s", method, route)) {
		route = "other"
	}

	c.requestMetrics.RecordRequest(method, route, status, duration)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (c *Collector) RecordRateLimited() {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.rateLimited.Inc()
}

// RecordAuthFailure records a request rejected by API key authentication.
func (c *Collector) RecordAuthFailure(reason string) {
	if !c.config.Enabled {
		return
	}
	c.requestMetrics.authFailures.WithLabelValues(reason).Inc()
}

// RegisterStoreGauge exposes the number of stored rules, read from count on
// every scrape. Only the first call has an effect.
func (c *Collector) RegisterStoreGauge(count func() float64) error {
	var err error
	c.storeGauge.Do(func() {
		err = c.registry.Register(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: c.config.Namespace,
				Name:      "store_rules",
				Help:      "Number of rules currently stored",
			},
			count,
		))
	})
	return err
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet is already tracked or still fits under the
// limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
