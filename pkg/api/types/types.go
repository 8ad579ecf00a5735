package types

import (
	"mercator-hq/verdict/pkg/rule/codec"
	"mercator-hq/verdict/pkg/rule/eval"
	"mercator-hq/verdict/pkg/store"
)

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateResponse is the body returned by POST /api/rules.
type CreateResponse struct {
	Message string          `json:"message"`
	Rule    *codec.Document `json:"rule"`
}

// CombineResponse is the body returned by POST /api/rules/combine.
type CombineResponse struct {
	Message      string          `json:"message"`
	CombinedRule *codec.Document `json:"combined_rule"`
}

// EvaluateResponse is the body returned by POST /api/rules/evaluate. Trace is
// present only when explain=true was requested and a leaf was decided.
type EvaluateResponse struct {
	Result bool        `json:"result"`
	Trace  []eval.Step `json:"trace,omitempty"`
}

// ListResponse is the body returned by GET /api/rules.
type ListResponse struct {
	Rules []*store.Record `json:"rules"`
}

// NewListResponse wraps records, rendering an empty list as [] rather than null.
func NewListResponse(records []*store.Record) ListResponse {
	if records == nil {
		records = []*store.Record{}
	}
	return ListResponse{Rules: records}
}
