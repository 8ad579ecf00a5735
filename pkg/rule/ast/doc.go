// Package ast defines the abstract syntax tree for boolean rule strings.
//
// A rule tree is built from two node types:
//
//	Operand   a leaf holding one raw condition string, e.g. "age > 30"
//	Operator  an AND/OR combinator with optional left and right children
//
// Node is a sealed interface: only *Operand and *Operator implement it. A nil
// Node means "absent". Every Operator owns its children outright; the
// constructors in this package never alias a subtree into two parents, and
// Clone produces a fully independent copy when a caller needs to reuse one.
//
// # Basic Usage
//
//	tree := ast.NewOperator(ast.And,
//	    ast.NewOperand("age > 30"),
//	    ast.NewOperand("country = 'US'"),
//	)
//	fmt.Println(ast.Format(tree)) // (age > 30 AND country = 'US')
//
// Traverse the tree with a Visitor:
//
//	err := ast.Walk(tree, visitor)
//
// # Immutability
//
// Trees are treated as immutable after construction. The parser builds a tree
// once and the evaluator and codec only read it.
package ast
