package parser

import (
	"errors"
	"testing"

	"mercator-hq/verdict/pkg/rule/ast"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Node
	}{
		{
			name:  "single condition",
			input: "age > 30",
			want:  ast.NewOperand("age > 30"),
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "   age > 30\t",
			want:  ast.NewOperand("age > 30"),
		},
		{
			name:  "and",
			input: "age > 30 AND country = 'US'",
			want:  ast.NewOperator(ast.And, ast.NewOperand("age > 30"), ast.NewOperand("country = 'US'")),
		},
		{
			name:  "or",
			input: "plan = 'pro' OR seats > 10",
			want:  ast.NewOperator(ast.Or, ast.NewOperand("plan = 'pro'"), ast.NewOperand("seats > 10")),
		},
		{
			name:  "and wins over or",
			input: "a > 1 OR b > 2 AND c > 3",
			want:  ast.NewOperator(ast.And, ast.NewOperand("a > 1 OR b > 2"), ast.NewOperand("c > 3")),
		},
		{
			name:  "split at first and only",
			input: "a > 1 AND b > 2 AND c > 3",
			want:  ast.NewOperator(ast.And, ast.NewOperand("a > 1"), ast.NewOperand("b > 2 AND c > 3")),
		},
		{
			name:  "keyword inside a word",
			input: "BRAND = 'acme'",
			want:  ast.NewOperator(ast.And, ast.NewOperand("BR"), ast.NewOperand("= 'acme'")),
		},
		{
			name:  "lowercase keyword is not a combinator",
			input: "a > 1 and b > 2",
			want:  ast.NewOperand("a > 1 and b > 2"),
		},
		{
			name:  "empty",
			input: "",
			want:  ast.NewOperand(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !ast.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, ast.Format(got), ast.Format(tt.want))
			}
		})
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name  string
		rules []string
		want  ast.Node
	}{
		{
			name:  "two rules",
			rules: []string{"a > 1", "b = 'x'"},
			want:  ast.NewOperator(ast.And, ast.NewOperand("a > 1"), ast.NewOperand("b = 'x'")),
		},
		{
			name:  "middle rule dropped",
			rules: []string{"a > 1", "b > 2", "c > 3"},
			want:  ast.NewOperator(ast.And, ast.NewOperand("a > 1"), ast.NewOperand("c > 3")),
		},
		{
			name:  "compound rules kept as subtrees",
			rules: []string{"a > 1 OR b > 2", "c = 'y'"},
			want: ast.NewOperator(ast.And,
				ast.NewOperator(ast.Or, ast.NewOperand("a > 1"), ast.NewOperand("b > 2")),
				ast.NewOperand("c = 'y'"),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Combine(tt.rules)
			if err != nil {
				t.Fatalf("Combine() error = %v", err)
			}
			if !ast.Equal(got, tt.want) {
				t.Errorf("Combine() = %s, want %s", ast.Format(got), ast.Format(tt.want))
			}
		})
	}
}

func TestCombine_TooFewRules(t *testing.T) {
	for _, rules := range [][]string{nil, {}, {"only one"}} {
		got, err := Combine(rules)
		if !errors.Is(err, ruleerrors.ErrInvalidInput) {
			t.Errorf("Combine(%q) error = %v, want invalid_input", rules, err)
		}
		if got != nil {
			t.Errorf("Combine(%q) = %s, want nil", rules, ast.Format(got))
		}
		if err != nil && err.Error() != MsgTooFewRules {
			t.Errorf("Combine(%q) message = %q, want %q", rules, err.Error(), MsgTooFewRules)
		}
	}
}

func TestDiscarded(t *testing.T) {
	tests := []struct {
		rules []string
		want  []int
	}{
		{[]string{"a"}, nil},
		{[]string{"a", "b"}, nil},
		{[]string{"a", "b", "c"}, []int{1}},
		{[]string{"a", "b", "c", "d", "e"}, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		got := Discarded(tt.rules)
		if len(got) != len(tt.want) {
			t.Errorf("Discarded(%q) = %v, want %v", tt.rules, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Discarded(%q) = %v, want %v", tt.rules, got, tt.want)
				break
			}
		}
	}
}
