// Package eval evaluates rule trees against a record of facts.
//
// Facts map field names to tagged values: every value is either an Integer or
// a Text. A leaf condition has exactly three whitespace-separated tokens,
//
//	key operator literal
//
// and is decided as follows:
//
//	missing key      false
//	key > n, key < n integer comparison; the literal must parse as an integer
//	                 and the fact must be an Integer
//	key = 'text'     text equality after stripping one leading and one
//	                 trailing single quote from the literal
//	other operator   false
//
// AND and OR nodes short-circuit left to right and treat an absent child as
// false. An absent tree is false.
//
// Evaluate is a pure function. Evaluator adds debug logging and can record a
// Trace of every leaf it decided.
package eval
