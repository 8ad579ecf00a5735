package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/verdict/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Path:      "/metrics",
		Namespace: "test",
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}

	if got := NewCollector(&config.MetricsConfig{Enabled: true}, nil); got.Registry() == nil {
		t.Error("expected a private registry when nil is passed")
	}
}

func TestCollector_RuleMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RuleCreated("api")
	collector.RuleCreated("api")
	collector.RuleCreated("file")
	collector.RulesCombined(0)
	collector.RulesCombined(3)

	rm := collector.ruleMetrics
	if got := testutil.ToFloat64(rm.created.WithLabelValues("api")); got != 2 {
		t.Errorf("created{api} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rm.created.WithLabelValues("file")); got != 1 {
		t.Errorf("created{file} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.combined); got != 2 {
		t.Errorf("combined = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rm.discarded); got != 3 {
		t.Errorf("discarded = %v, want 3", got)
	}
}

func TestCollector_EvaluationMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordEvaluation(true, 10*time.Microsecond)
	collector.RecordEvaluation(false, 20*time.Microsecond)
	collector.RecordEvaluation(true, 30*time.Microsecond)
	collector.RecordEvaluationError("type_parse_error")

	rm := collector.ruleMetrics
	if got := testutil.ToFloat64(rm.evaluations.WithLabelValues("true")); got != 2 {
		t.Errorf("evaluations{true} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rm.evaluations.WithLabelValues("false")); got != 1 {
		t.Errorf("evaluations{false} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.evaluationErrors.WithLabelValues("type_parse_error")); got != 1 {
		t.Errorf("evaluation_errors{type_parse_error} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(rm.evaluationDuration); got != 1 {
		t.Errorf("expected 1 duration series, got %d", got)
	}
}

func TestCollector_HTTPMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordHTTPRequest("POST", "POST /api/create_rule", 200, time.Millisecond)
	collector.RecordHTTPRequest("POST", "POST /api/create_rule", 400, time.Millisecond)
	collector.RecordRateLimited()
	collector.RecordAuthFailure("missing_key")

	rm := collector.requestMetrics
	if got := testutil.ToFloat64(rm.requestsTotal.WithLabelValues("POST", "POST /api/create_rule", "200")); got != 1 {
		t.Errorf("requests{200} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.rateLimited); got != 1 {
		t.Errorf("rate_limited = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.authFailures.WithLabelValues("missing_key")); got != 1 {
		t.Errorf("auth_failures{missing_key} = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RuleCreated("api")
	collector.RecordEvaluation(true, time.Microsecond)
	collector.RecordHTTPRequest("GET", "GET /health", 200, time.Millisecond)

	if got := testutil.ToFloat64(collector.ruleMetrics.created.WithLabelValues("api")); got != 0 {
		t.Errorf("disabled collector recorded created = %v", got)
	}
	if got := testutil.CollectAndCount(collector.requestMetrics.requestsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d request series", got)
	}
}

func TestCollector_StoreGauge(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	count := 0.0
	if err := collector.RegisterStoreGauge(func() float64 { return count }); err != nil {
		t.Fatalf("RegisterStoreGauge() error = %v", err)
	}
	// Second registration is ignored.
	if err := collector.RegisterStoreGauge(func() float64 { return -1 }); err != nil {
		t.Fatalf("second RegisterStoreGauge() error = %v", err)
	}

	count = 7
	expected := `
# HELP test_store_rules Number of rules currently stored
# TYPE test_store_rules gauge
test_store_rules 7
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "test_store_rules"); err != nil {
		t.Error(err)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(2)

	if !cl.Allow("a") || !cl.Allow("b") {
		t.Fatal("expected first two label sets to be allowed")
	}
	if cl.Allow("c") {
		t.Error("expected third label set to be rejected")
	}
	if !cl.Allow("a") {
		t.Error("expected known label set to stay allowed")
	}
	if cl.Count() != 2 {
		t.Errorf("Count() = %d, want 2", cl.Count())
	}
}

func TestCollector_RouteCardinality(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordHTTPRequest("GET", "GET /health", 200, time.Millisecond)
	collector.RecordHTTPRequest("GET", "GET /ready", 200, time.Millisecond)

	rm := collector.requestMetrics
	if got := testutil.ToFloat64(rm.requestsTotal.WithLabelValues("GET", "other", "200")); got != 1 {
		t.Errorf("requests{other} = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RuleCreated("api")

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `test_rules_created_total{origin="api"} 1`) {
		t.Errorf("metrics output missing created counter:\n%s", body)
	}
}
