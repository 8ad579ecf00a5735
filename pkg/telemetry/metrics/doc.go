// Package metrics provides Prometheus metrics collection for verdict.
//
// # Metrics Categories
//
//   - Rule Metrics: rules created and combined, rules discarded by combine
//   - Evaluation Metrics: evaluation count by result, duration, and errors by kind
//   - Store Metrics: current number of stored rules
//   - HTTP Metrics: request count and duration by route, rate limited requests
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	collector.RuleCreated("api")
//	collector.RecordEvaluation(true, 40*time.Microsecond)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// All metrics are registered on a private registry. The route label carries the
// mux pattern, never the raw URL path, so label cardinality stays bounded.
package metrics
