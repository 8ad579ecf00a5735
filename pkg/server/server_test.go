package server

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/verdict/pkg/config"
	"mercator-hq/verdict/pkg/service"
	"mercator-hq/verdict/pkg/store"
	"mercator-hq/verdict/pkg/telemetry/health"
	"mercator-hq/verdict/pkg/telemetry/metrics"
	"mercator-hq/verdict/pkg/telemetry/tracing"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *metrics.Collector) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Server.RateLimit.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	svc := service.New(store.NewMemoryStore(), service.Options{MaxDecodeDepth: cfg.Engine.MaxDecodeDepth}, collector, logger)
	checker := health.New(time.Second)

	return New(cfg, svc, collector, checker, BuildInfo{Version: "test"}, logger), collector
}

func TestServer_Routes(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"create", http.MethodPost, "/api/rules", `{"rule_string":"a = 1"}`, http.StatusOK, `"Rule created"`},
		{"list", http.MethodGet, "/api/rules", "", http.StatusOK, `"rules"`},
		{"health", http.MethodGet, "/health", "", http.StatusOK, `"status":"ok"`},
		{"ready without checks", http.MethodGet, "/ready", "", http.StatusOK, `"status":"ready"`},
		{"version", http.MethodGet, "/version", "", http.StatusOK, `"version":"test"`},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, "verdict_"},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, ""},
		{"wrong method", http.MethodPut, "/api/rules", "", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tt.wantBody)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID header")
			}
		})
	}
}

func TestServer_ReadinessReportsFailingCheck(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.checker.RegisterCheck("store", func(context.Context) error {
		return errors.New("closed")
	})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/rules/evaluate", nil)
	req.Header.Set("Origin", config.DefaultCORSOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != config.DefaultCORSOrigin {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, config.DefaultCORSOrigin)
	}
}

func TestServer_Compression(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	// Enough rules to push the list response past the gzip size threshold.
	for i := 0; i < 40; i++ {
		body := fmt.Sprintf(`{"rule_string":"field_%d > %d AND other_field_%d = 'value'"}`, i, i, i)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/rules", strings.NewReader(body)))
		if w.Code != http.StatusOK {
			t.Fatalf("create %d: status %d", i, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rules", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if !strings.Contains(string(data), "field_39") {
		t.Error("decompressed body is missing the last rule")
	}
}

func TestServer_CompressionDisabled(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.Compression = false
	})

	req := httptest.NewRequest(http.MethodGet, "/api/rules", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want none", got)
	}
}

func TestServer_RateLimit(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	})
	h := srv.Handler()

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 429]", codes)
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.Metrics.Enabled = false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewMemoryStore(), service.Options{}, nil, logger)
	srv := New(cfg, svc, nil, nil, BuildInfo{}, logger)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestServer_Tracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	srv, _ := newTestServer(t, func(c *config.Config) {
		c.Telemetry.Tracing.Enabled = true
		c.Telemetry.Tracing.Sampler = tracing.SamplerAlways
	})
	tracer, err := tracing.NewWithProcessor(&srv.config.Telemetry.Tracing, "test", rec)
	if err != nil {
		t.Fatal(err)
	}
	defer tracer.Shutdown(context.Background())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/rules", strings.NewReader(`{"rule_string":"a = 1"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if w.Header().Get(tracing.TraceIDHeader) == "" {
		t.Error("missing trace ID header")
	}

	var names []string
	for _, span := range rec.Ended() {
		names = append(names, span.Name())
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "POST /api/rules") || !strings.Contains(joined, "service.Create") {
		t.Errorf("spans = %v, want the route span and service.Create", names)
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	if !srv.IsRunning() {
		t.Error("IsRunning() = false after start")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}

	// A second shutdown is a no-op.
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestServer_StartTwice(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	<-srv.Ready()

	if err := srv.Start(ctx); err == nil {
		t.Error("second Start() succeeded, want error")
	}

	cancel()
	<-done
}

func TestServer_ListenError(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.ListenAddress = "256.0.0.1:99999"
	})

	if err := srv.Start(context.Background()); err == nil {
		t.Error("Start() with invalid address succeeded, want error")
	}
}
