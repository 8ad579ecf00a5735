package ast

import "strings"

// Equal reports whether a and b are structurally identical: same variants,
// same values, same children. Two absent nodes are equal.
func Equal(a, b Node) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}

	switch x := a.(type) {
	case *Operand:
		y, ok := b.(*Operand)
		return ok && x.Condition == y.Condition

	case *Operator:
		y, ok := b.(*Operator)
		if !ok || x.Op != y.Op {
			return false
		}
		return Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	}

	return false
}

// Clone returns a deep copy of n that shares no nodes with the original.
func Clone(n Node) Node {
	if IsNil(n) {
		return nil
	}

	switch v := n.(type) {
	case *Operand:
		return NewOperand(v.Condition)
	case *Operator:
		return NewOperator(v.Op, Clone(v.Left), Clone(v.Right))
	}

	return nil
}

// Format renders the tree as a single line. Operators are parenthesized and
// absent children print as "<none>".
//
// Example output: "(age > 30 AND country = 'US')"
func Format(n Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n Node) {
	if IsNil(n) {
		sb.WriteString("<none>")
		return
	}

	switch v := n.(type) {
	case *Operand:
		sb.WriteString(v.Condition)
	case *Operator:
		sb.WriteString("(")
		format(sb, v.Left)
		sb.WriteString(" ")
		sb.WriteString(string(v.Op))
		sb.WriteString(" ")
		format(sb, v.Right)
		sb.WriteString(")")
	}
}
