// Package telemetry groups the observability packages used by verdict.
//
// # Components
//
//   - logging: slog setup with request and trace IDs, fact values redacted
//   - metrics: Prometheus collectors for rule, evaluation and HTTP activity
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness and readiness endpoints backed by named checks
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactFacts: true})
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(ctx)
//
//	checker := health.New(0)
//	checker.RegisterCheck("store", store.Ping)
//
// With RedactFacts set, attributes named actual, facts or user_data are
// replaced with [REDACTED] before they are written.
package telemetry
