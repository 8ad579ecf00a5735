// Package errors defines the typed failures returned by the rule engine.
//
// Every engine entry point returns a *Error carrying one of five kinds:
//
//	invalid_input        missing or insufficient arguments
//	malformed_ast        a serialized tree has the wrong shape
//	malformed_condition  a condition does not split into three tokens
//	type_parse_error     a numeric literal is not an integer
//	type_mismatch        a numeric comparison against a text fact
//
// Callers match kinds with the standard library:
//
//	if errors.Is(err, ruleerrors.ErrTypeMismatch) { ... }
//
// ErrorList accumulates several errors, which the linter uses to report every
// problem in a rule set at once instead of stopping at the first.
package errors
