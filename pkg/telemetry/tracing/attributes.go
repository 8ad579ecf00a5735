package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for verdict spans.
const (
	AttrRuleKind             = attribute.Key("verdict.rule.kind")
	AttrRuleCount            = attribute.Key("verdict.rule.count")
	AttrRuleDiscarded        = attribute.Key("verdict.rule.discarded")
	AttrEvaluationResult     = attribute.Key("verdict.evaluation.result")
	AttrEvaluationConditions = attribute.Key("verdict.evaluation.conditions")
	AttrErrorKind            = attribute.Key("verdict.error.kind")
	AttrRequestID            = attribute.Key("verdict.request.id")

	AttrHTTPMethod = attribute.Key("http.request.method")
	AttrHTTPRoute  = attribute.Key("http.route")
	AttrHTTPStatus = attribute.Key("http.response.status_code")
)

// SetEvaluationAttributes records the outcome of an evaluation.
func SetEvaluationAttributes(span trace.Span, result bool, conditions int) {
	span.SetAttributes(
		AttrEvaluationResult.Bool(result),
		AttrEvaluationConditions.Int(conditions),
	)
}

// SetErrorAttributes records a failed operation with its rule error kind.
// An empty kind records only the error.
func SetErrorAttributes(span trace.Span, err error, kind string) {
	if err == nil {
		return
	}
	if kind != "" {
		span.SetAttributes(AttrErrorKind.String(kind))
	}
	SetStatus(span, err)
}
