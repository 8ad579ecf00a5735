package parser

import (
	"mercator-hq/verdict/pkg/rule/ast"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
)

// MsgTooFewRules is returned when Combine receives fewer than two rules.
const MsgTooFewRules = "At least two rules are required"

// Combine parses every rule and joins them under a single AND node. The first
// rule becomes the left child; each later rule overwrites the right child, so
// only the last one is kept there.
func Combine(rules []string) (ast.Node, error) {
	if len(rules) < 2 {
		return nil, ruleerrors.New(ruleerrors.KindInvalidInput, MsgTooFewRules)
	}

	root := ast.NewOperator(ast.And, nil, nil)
	for _, rule := range rules {
		sub := Parse(rule)
		if root.Left == nil {
			root.Left = sub
			continue
		}
		root.Right = sub
	}
	return root, nil
}

// Discarded returns the indexes of the rules Combine drops: every rule except
// the first and the last.
func Discarded(rules []string) []int {
	if len(rules) < 3 {
		return nil
	}
	idx := make([]int, 0, len(rules)-2)
	for i := 1; i < len(rules)-1; i++ {
		idx = append(idx, i)
	}
	return idx
}
