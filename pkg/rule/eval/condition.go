package eval

import (
	"strings"

	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
)

// Comparison operators understood by leaf conditions.
const (
	OpGreater = ">"
	OpLess    = "<"
	OpEqual   = "="
)

// Operators lists the comparison operators in display order.
var Operators = []string{OpGreater, OpLess, OpEqual}

// Condition is a leaf condition split into its tokens.
type Condition struct {
	Key      string
	Operator string
	Literal  string
}

// ParseCondition splits a leaf condition on whitespace. Anything other than
// exactly three tokens is a malformed_condition error.
func ParseCondition(s string) (Condition, error) {
	tokens := strings.Fields(s)
	if len(tokens) != 3 {
		return Condition{}, ruleerrors.New(ruleerrors.KindMalformedCondition,
			"condition %q must have 3 tokens (key operator literal), got %d", s, len(tokens)).
			WithCondition(s)
	}
	return Condition{Key: tokens[0], Operator: tokens[1], Literal: tokens[2]}, nil
}

// KnownOperator reports whether the operator is one of Operators.
func (c Condition) KnownOperator() bool {
	switch c.Operator {
	case OpGreater, OpLess, OpEqual:
		return true
	}
	return false
}

// unquote removes one leading and one trailing single quote.
func unquote(s string) string {
	s = strings.TrimPrefix(s, "'")
	return strings.TrimSuffix(s, "'")
}
