package eval

import (
	"log/slog"
	"strconv"

	"mercator-hq/verdict/pkg/rule/ast"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
)

// Step records the decision for one leaf condition.
type Step struct {
	Condition string `json:"condition"`
	Result    bool   `json:"result"`
}

// Trace collects the leaf decisions of one evaluation, in evaluation order.
// Leaves skipped by short-circuiting do not appear.
type Trace struct {
	Steps []Step
}

func (t *Trace) record(condition string, result bool) {
	if t != nil {
		t.Steps = append(t.Steps, Step{Condition: condition, Result: result})
	}
}

// Evaluate decides a tree against facts. It is a pure function.
func Evaluate(n ast.Node, facts Facts) (bool, error) {
	w := walker{facts: facts}
	return w.eval(n)
}

// Evaluator evaluates trees and logs each leaf decision at debug level.
type Evaluator struct {
	logger *slog.Logger
}

// NewEvaluator creates an evaluator. A nil logger uses slog.Default().
func NewEvaluator(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger.With("component", "evaluator")}
}

// Evaluate decides a tree against facts.
func (e *Evaluator) Evaluate(n ast.Node, facts Facts) (bool, error) {
	w := walker{facts: facts, logger: e.logger}
	return w.eval(n)
}

// Explain decides a tree against facts and returns the trace of leaf
// decisions made before the result, or before the error, was reached.
func (e *Evaluator) Explain(n ast.Node, facts Facts) (bool, *Trace, error) {
	trace := &Trace{}
	w := walker{facts: facts, logger: e.logger, trace: trace}
	result, err := w.eval(n)
	return result, trace, err
}

type walker struct {
	facts  Facts
	logger *slog.Logger
	trace  *Trace
}

func (w *walker) eval(n ast.Node) (bool, error) {
	if ast.IsNil(n) {
		return false, nil
	}

	switch v := n.(type) {
	case *ast.Operand:
		result, err := w.operand(v.Condition)
		if err != nil {
			return false, err
		}
		w.trace.record(v.Condition, result)
		return result, nil

	case *ast.Operator:
		switch v.Op {
		case ast.And:
			left, err := w.eval(v.Left)
			if err != nil || !left {
				return false, err
			}
			return w.eval(v.Right)

		case ast.Or:
			left, err := w.eval(v.Left)
			if err != nil {
				return false, err
			}
			if left {
				return true, nil
			}
			return w.eval(v.Right)
		}
	}

	return false, nil
}

func (w *walker) operand(s string) (bool, error) {
	cond, err := ParseCondition(s)
	if err != nil {
		return false, err
	}

	fact, ok := w.facts[cond.Key]
	if !ok {
		w.debug("fact not found", cond, fact, false)
		return false, nil
	}

	var result bool
	switch cond.Operator {
	case OpGreater, OpLess:
		literal, err := strconv.ParseInt(cond.Literal, 10, 64)
		if err != nil {
			return false, ruleerrors.Wrap(ruleerrors.KindTypeParse, err,
				"literal %q in condition %q is not an integer", cond.Literal, s).WithCondition(s)
		}
		actual, ok := fact.Int()
		if !ok {
			return false, ruleerrors.New(ruleerrors.KindTypeMismatch,
				"fact %q is %s, condition %q needs an integer", cond.Key, fact.Kind(), s).WithCondition(s)
		}
		if cond.Operator == OpGreater {
			result = actual > literal
		} else {
			result = actual < literal
		}

	case OpEqual:
		if text, ok := fact.Str(); ok {
			result = text == unquote(cond.Literal)
		}
	}

	w.debug("condition evaluated", cond, fact, result)
	return result, nil
}

func (w *walker) debug(msg string, cond Condition, fact Value, result bool) {
	if w.logger == nil {
		return
	}
	w.logger.Debug(msg,
		"key", cond.Key,
		"operator", cond.Operator,
		"literal", cond.Literal,
		"actual", fact.String(),
		"matched", result,
	)
}
