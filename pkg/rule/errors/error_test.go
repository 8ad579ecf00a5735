package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same kind", New(KindTypeMismatch, "x"), ErrTypeMismatch, true},
		{"other kind", New(KindTypeMismatch, "x"), ErrTypeParse, false},
		{"wrapped", fmt.Errorf("evaluate: %w", New(KindMalformedAST, "bad")), ErrMalformedAST, true},
		{"plain error", stderrors.New("boom"), ErrInvalidInput, false},
		{"non-sentinel target", New(KindInvalidInput, "a"), New(KindInvalidInput, "b"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	cause := stderrors.New("strconv failure")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"sentinel", ErrTypeMismatch, "type_mismatch"},
		{"message only", New(KindInvalidInput, "At least two rules are required"), "At least two rules are required"},
		{"with path", New(KindMalformedAST, "missing field %q", "value").WithPath("$.left"), `missing field "value" at $.left`},
		{"with cause", Wrap(KindTypeParse, cause, "literal %q is not an integer", "abc"), `literal "abc" is not an integer: strconv failure`},
		{"with suggestion", New(KindMalformedAST, "unknown type").WithSuggestion("Did you mean 'operand'?"), "unknown type (Did you mean 'operand'?)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("root")
	err := Wrap(KindTypeParse, cause, "bad literal")
	if !stderrors.Is(err, cause) {
		t.Error("Wrap() should keep the cause in the chain")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("ctx: %w", New(KindMalformedCondition, "x"))); got != KindMalformedCondition {
		t.Errorf("KindOf() = %q, want %q", got, KindMalformedCondition)
	}
	if got := KindOf(stderrors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want empty", got)
	}
}

func TestErrorList(t *testing.T) {
	el := NewErrorList()
	if el.HasErrors() {
		t.Fatal("new list should be empty")
	}
	if el.ToError() != nil {
		t.Error("ToError() on empty list should be nil")
	}

	el.AddError(KindMalformedCondition, "x >> 1 2", "expected 3 tokens, got 4")
	el.AddError(KindTypeParse, "age > abc", "literal is not an integer")
	el.Add(New(KindMalformedCondition, "expected 3 tokens, got 1"))

	if el.Count() != 3 {
		t.Errorf("Count() = %d, want 3", el.Count())
	}
	if got := len(el.ByKind(KindMalformedCondition)); got != 2 {
		t.Errorf("ByKind(malformed_condition) = %d errors, want 2", got)
	}
	if el.ToError() == nil {
		t.Error("ToError() should return the list when it has errors")
	}

	msg := el.Error()
	for _, want := range []string{"found 3 error(s)", `"age > abc": [type_parse_error]`, "expected 3 tokens, got 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() missing %q in:\n%s", want, msg)
		}
	}
}
