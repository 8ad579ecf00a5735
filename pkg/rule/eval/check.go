package eval

import (
	"fmt"
	"strconv"

	"mercator-hq/verdict/pkg/rule/ast"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
)

// Check inspects a tree without facts and reports every leaf that would fail
// evaluation. Conditions that would silently evaluate to false, such as an
// unknown operator, are returned as warnings.
func Check(n ast.Node) (warnings []string, err error) {
	c := &checker{errs: ruleerrors.NewErrorList()}
	_ = ast.Walk(n, c)
	return c.warnings, c.errs.ToError()
}

type checker struct {
	errs     *ruleerrors.ErrorList
	warnings []string
}

func (c *checker) VisitOperand(o *ast.Operand) error {
	cond, err := ParseCondition(o.Condition)
	if err != nil {
		c.errs.Add(err.(*ruleerrors.Error))
		return nil
	}

	if !cond.KnownOperator() {
		c.warnings = append(c.warnings, fmt.Sprintf("condition %q: unknown operator %q always evaluates to false (%s)",
			o.Condition, cond.Operator, ruleerrors.Suggest(cond.Operator, Operators)))
		return nil
	}

	if cond.Operator == OpGreater || cond.Operator == OpLess {
		if _, err := strconv.ParseInt(cond.Literal, 10, 64); err != nil {
			c.errs.AddError(ruleerrors.KindTypeParse, o.Condition,
				fmt.Sprintf("literal %q is not an integer", cond.Literal))
		}
	}
	return nil
}

func (c *checker) VisitOperator(o *ast.Operator) error {
	if !o.Op.IsValid() {
		c.warnings = append(c.warnings, fmt.Sprintf("combinator %q always evaluates to false", o.Op))
	}
	if ast.IsNil(o.Left) || ast.IsNil(o.Right) {
		c.warnings = append(c.warnings, fmt.Sprintf("%s node with a missing child", o.Op))
	}
	return nil
}
