package ast

// Visitor provides an interface for traversing a rule tree.
// Implement it to inspect nodes (linting, tracing, collection, etc.).
type Visitor interface {
	VisitOperand(*Operand) error
	VisitOperator(*Operator) error
}

// Walk traverses the tree rooted at n in pre-order, left subtree before right,
// and calls the visitor for each present node. It returns the first error
// encountered, or nil if traversal completes. Absent nodes are skipped.
func Walk(n Node, visitor Visitor) error {
	if IsNil(n) {
		return nil
	}

	switch v := n.(type) {
	case *Operand:
		return visitor.VisitOperand(v)

	case *Operator:
		if err := visitor.VisitOperator(v); err != nil {
			return err
		}
		if err := Walk(v.Left, visitor); err != nil {
			return err
		}
		return Walk(v.Right, visitor)
	}

	return nil
}

// Operands returns every leaf of the tree in left-to-right order.
func Operands(n Node) []*Operand {
	c := &operandCollector{}
	_ = Walk(n, c)
	return c.operands
}

type operandCollector struct {
	operands []*Operand
}

func (c *operandCollector) VisitOperand(o *Operand) error {
	c.operands = append(c.operands, o)
	return nil
}

func (c *operandCollector) VisitOperator(*Operator) error { return nil }

// Depth returns the height of the tree: 0 for an absent tree, 1 for a leaf.
func Depth(n Node) int {
	op, ok := n.(*Operator)
	if !ok {
		if IsNil(n) {
			return 0
		}
		return 1
	}
	if op == nil {
		return 0
	}
	return 1 + max(Depth(op.Left), Depth(op.Right))
}
