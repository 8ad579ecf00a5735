// Package tracing provides OpenTelemetry distributed tracing for verdict.
//
// When tracing is enabled, spans are exported over OTLP/gRPC to the configured
// collector and W3C Trace Context headers (traceparent, tracestate) are honored
// on incoming requests. When disabled, every span is a no-op.
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	handler = tracing.HTTPMiddleware(handler)
//
// Library code starts spans through the global provider installed by New:
//
//	ctx, span := tracing.Start(ctx, "service.Evaluate")
//	defer span.End()
//
// # Span Attributes
//
// Custom attributes use the "verdict.*" namespace:
//   - verdict.rule.kind: created or combined
//   - verdict.rule.count: number of rule strings combined
//   - verdict.rule.discarded: number of rules dropped by combine
//   - verdict.evaluation.result: the verdict
//   - verdict.evaluation.conditions: number of leaf conditions in the tree
//   - verdict.error.kind: the rule error kind of a failed operation
//
// HTTP server spans carry http.request.method, http.route and
// http.response.status_code.
package tracing
