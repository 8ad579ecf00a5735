package service

import (
	"mercator-hq/verdict/pkg/rule/parser"
)

// Messages returned to clients. Their text is part of the HTTP contract.
const (
	MsgRuleCreated           = "Rule created"
	MsgRulesCombined         = "Rules combined"
	MsgRuleStringRequired    = "Rule string is required"
	MsgTooFewRules           = parser.MsgTooFewRules
	MsgEvaluateInputRequired = "User data and AST are required"
	MsgInvalidAST            = "Invalid AST provided"
	MsgRuleNotFound          = "Rule not found"
)

// EvaluationError marks a failure raised while deciding a tree against facts,
// as opposed to a problem with the request shape.
type EvaluationError struct {
	Err error
}

func (e *EvaluationError) Error() string { return e.Err.Error() }

func (e *EvaluationError) Unwrap() error { return e.Err }
