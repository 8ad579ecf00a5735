package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind categorizes an engine failure.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindMalformedAST       Kind = "malformed_ast"
	KindMalformedCondition Kind = "malformed_condition"
	KindTypeParse          Kind = "type_parse_error"
	KindTypeMismatch       Kind = "type_mismatch"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrMalformedAST       = &Error{Kind: KindMalformedAST}
	ErrMalformedCondition = &Error{Kind: KindMalformedCondition}
	ErrTypeParse          = &Error{Kind: KindTypeParse}
	ErrTypeMismatch       = &Error{Kind: KindTypeMismatch}
)

// Error is a typed engine failure.
type Error struct {
	Kind       Kind   // Category of error
	Message    string // Human-readable description
	Path       string // Location inside a serialized tree, e.g. "$.left.right"
	Condition  string // Offending condition string (optional)
	Suggestion string // Suggested fix (optional)
	Cause      error  // Underlying error (optional)
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind with an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Path != "" {
		sb.WriteString(" at ")
		sb.WriteString(e.Path)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// WithPath returns e with the path set.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithCondition returns e with the offending condition set.
func (e *Error) WithCondition(condition string) *Error {
	e.Condition = condition
	return e
}

// WithSuggestion returns e with the suggestion set.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// carries none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ErrorList collects several errors instead of failing on the first.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error for the given condition.
func (el *ErrorList) AddError(kind Kind, condition, message string) {
	el.Add(&Error{
		Kind:      kind,
		Message:   message,
		Condition: condition,
	})
}

// HasErrors returns true if the list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d error(s):", el.Count())
	for _, err := range el.Errors {
		sb.WriteString("\n  ")
		if err.Condition != "" {
			fmt.Fprintf(&sb, "%q: ", err.Condition)
		}
		fmt.Fprintf(&sb, "[%s] %s", err.Kind, err.Error())
	}
	return sb.String()
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByKind returns all errors of the given kind.
func (el *ErrorList) ByKind(kind Kind) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Kind == kind {
			result = append(result, err)
		}
	}
	return result
}
