package codec

import (
	"mercator-hq/verdict/pkg/rule/ast"
)

// Document is the serialized form of one tree node.
type Document struct {
	Type  ast.Kind  `json:"type"`
	Left  *Document `json:"left"`
	Right *Document `json:"right"`
	Value string    `json:"value"`
}

// Encode converts a tree into its serialized form. An absent tree encodes to
// nil, which marshals as JSON null.
func Encode(n ast.Node) *Document {
	if ast.IsNil(n) {
		return nil
	}

	switch v := n.(type) {
	case *ast.Operand:
		return &Document{Type: ast.KindOperand, Value: v.Condition}
	case *ast.Operator:
		return &Document{
			Type:  ast.KindOperator,
			Left:  Encode(v.Left),
			Right: Encode(v.Right),
			Value: string(v.Op),
		}
	}
	return nil
}
