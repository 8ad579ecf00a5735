package ast

// Kind identifies the variant of a Node. The string values are the wire
// names used by the serialized form.
type Kind string

const (
	KindOperand  Kind = "operand"  // leaf condition
	KindOperator Kind = "operator" // AND/OR combinator
)

// Combinator is the boolean keyword held by an Operator node.
type Combinator string

const (
	And Combinator = "AND"
	Or  Combinator = "OR"
)

// IsValid reports whether c is one of the supported combinators.
func (c Combinator) IsValid() bool {
	return c == And || c == Or
}

// Node is a rule tree node. It is implemented by *Operand and *Operator only.
type Node interface {
	// Kind returns the node variant.
	Kind() Kind

	// Value returns the raw condition for an Operand and the combinator
	// keyword for an Operator.
	Value() string

	node()
}

// Operand is a leaf node holding a single condition string such as
// "age > 30". It never has children.
type Operand struct {
	Condition string
}

// NewOperand creates a leaf node for the given condition.
func NewOperand(condition string) *Operand {
	return &Operand{Condition: condition}
}

// Kind returns KindOperand.
func (o *Operand) Kind() Kind { return KindOperand }

// Value returns the raw condition string.
func (o *Operand) Value() string { return o.Condition }

func (*Operand) node() {}

// Operator combines two optional subtrees with AND or OR.
// Left and Right are nil when the child is absent.
type Operator struct {
	Op    Combinator
	Left  Node
	Right Node
}

// NewOperator creates a combinator node owning left and right.
// Either child may be nil.
func NewOperator(op Combinator, left, right Node) *Operator {
	return &Operator{Op: op, Left: left, Right: right}
}

// Kind returns KindOperator.
func (o *Operator) Kind() Kind { return KindOperator }

// Value returns the combinator keyword.
func (o *Operator) Value() string { return string(o.Op) }

func (*Operator) node() {}

// IsNil reports whether n is absent, including a typed nil pointer stored in
// the interface.
func IsNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Operand:
		return v == nil
	case *Operator:
		return v == nil
	default:
		return false
	}
}
