package parser

import (
	"strings"

	"mercator-hq/verdict/pkg/rule/ast"
)

// keywords are tried in order; the first one present wins.
var keywords = []ast.Combinator{ast.And, ast.Or}

// Parse converts a rule string into a tree. It never fails: empty or
// malformed input yields an operand holding the trimmed text.
func Parse(rule string) ast.Node {
	for _, kw := range keywords {
		left, right, found := strings.Cut(rule, string(kw))
		if !found {
			continue
		}
		return ast.NewOperator(kw,
			ast.NewOperand(strings.TrimSpace(left)),
			ast.NewOperand(strings.TrimSpace(right)),
		)
	}
	return ast.NewOperand(strings.TrimSpace(rule))
}
