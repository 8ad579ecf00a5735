// Package parser converts rule strings into rule trees.
//
// # Grammar
//
// The accepted language is deliberately flat. A rule string is either a single
// condition, or two conditions joined by one combinator keyword:
//
//	age > 30
//	age > 30 AND country = 'US'
//	plan = 'pro' OR seats > 10
//
// Parse looks for the substring "AND" first and splits at its first
// occurrence; only when "AND" is absent does it look for "OR". Both halves are
// trimmed and become operands.
//
// # Known Limitations
//
// The keyword match is a case-sensitive substring search, not a tokenizer:
//
//   - a condition containing "AND" or "OR" inside a word, e.g. "BRAND = 'x'"
//     or "ORIGIN = 'y'", is split in the middle of that word
//   - a second keyword stays inside the right operand text, so
//     "a > 1 AND b > 2 AND c > 3" yields the operand "b > 2 AND c > 3"
//   - parentheses, NOT and precedence are not supported
//
// These conditions are still returned as trees; the evaluator later reports
// the broken operands as malformed conditions.
//
// # Combining
//
// Combine joins a list of rule strings under one AND node. Only the first and
// the last rule survive; rules in between are parsed and then dropped.
// Discarded reports which indexes were dropped so callers can warn about them.
package parser
