package ast

import (
	"errors"
	"testing"
)

func sample() Node {
	return NewOperator(And,
		NewOperand("age > 30"),
		NewOperator(Or, NewOperand("country = 'US'"), nil),
	)
}

func TestCombinator_IsValid(t *testing.T) {
	tests := []struct {
		c    Combinator
		want bool
	}{
		{And, true},
		{Or, true},
		{"XOR", false},
		{"and", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.c.IsValid(); got != tt.want {
			t.Errorf("Combinator(%q).IsValid() = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestNode_KindAndValue(t *testing.T) {
	leaf := NewOperand("age > 30")
	if leaf.Kind() != KindOperand || leaf.Value() != "age > 30" {
		t.Errorf("Operand = (%s, %q), want (operand, %q)", leaf.Kind(), leaf.Value(), "age > 30")
	}

	op := NewOperator(Or, nil, nil)
	if op.Kind() != KindOperator || op.Value() != "OR" {
		t.Errorf("Operator = (%s, %q), want (operator, OR)", op.Kind(), op.Value())
	}
}

func TestIsNil(t *testing.T) {
	var typedOperand *Operand
	var typedOperator *Operator

	tests := []struct {
		name string
		n    Node
		want bool
	}{
		{"nil interface", nil, true},
		{"typed nil operand", typedOperand, true},
		{"typed nil operator", typedOperator, true},
		{"operand", NewOperand("a = 'b'"), false},
		{"operator", NewOperator(And, nil, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNil(tt.n); got != tt.want {
				t.Errorf("IsNil() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs leaf", nil, NewOperand("a"), false},
		{"same leaf", NewOperand("a > 1"), NewOperand("a > 1"), true},
		{"different leaf", NewOperand("a > 1"), NewOperand("a > 2"), false},
		{"leaf vs operator", NewOperand("AND"), NewOperator(And, nil, nil), false},
		{"same tree", sample(), sample(), true},
		{"different combinator", NewOperator(And, nil, nil), NewOperator(Or, nil, nil), false},
		{"missing right", NewOperator(And, NewOperand("a"), NewOperand("b")), NewOperator(And, NewOperand("a"), nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	orig := sample().(*Operator)
	clone := Clone(orig).(*Operator)

	if !Equal(orig, clone) {
		t.Fatalf("Clone() = %s, want %s", Format(clone), Format(orig))
	}
	if clone == orig || clone.Left == orig.Left || clone.Right == orig.Right {
		t.Error("Clone() shares nodes with the original")
	}

	clone.Left.(*Operand).Condition = "age > 99"
	if orig.Left.(*Operand).Condition != "age > 30" {
		t.Error("mutating the clone changed the original")
	}

	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		n    Node
		want string
	}{
		{"nil", nil, "<none>"},
		{"leaf", NewOperand("age > 30"), "age > 30"},
		{"tree", sample(), "(age > 30 AND (country = 'US' OR <none>))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.n); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

type recordingVisitor struct {
	seen    []string
	stopAt  string
	stopErr error
}

func (v *recordingVisitor) VisitOperand(o *Operand) error {
	v.seen = append(v.seen, o.Condition)
	if o.Condition == v.stopAt {
		return v.stopErr
	}
	return nil
}

func (v *recordingVisitor) VisitOperator(o *Operator) error {
	v.seen = append(v.seen, string(o.Op))
	return nil
}

func TestWalk(t *testing.T) {
	v := &recordingVisitor{}
	if err := Walk(sample(), v); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"AND", "age > 30", "OR", "country = 'US'"}
	if len(v.seen) != len(want) {
		t.Fatalf("Walk() visited %v, want %v", v.seen, want)
	}
	for i := range want {
		if v.seen[i] != want[i] {
			t.Errorf("visit[%d] = %q, want %q", i, v.seen[i], want[i])
		}
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	v := &recordingVisitor{stopAt: "age > 30", stopErr: stop}

	if err := Walk(sample(), v); !errors.Is(err, stop) {
		t.Fatalf("Walk() error = %v, want %v", err, stop)
	}
	if len(v.seen) != 2 {
		t.Errorf("Walk() visited %d nodes after error, want 2", len(v.seen))
	}
}

func TestOperandsAndDepth(t *testing.T) {
	ops := Operands(sample())
	if len(ops) != 2 || ops[0].Condition != "age > 30" || ops[1].Condition != "country = 'US'" {
		t.Errorf("Operands() = %v", ops)
	}

	tests := []struct {
		n    Node
		want int
	}{
		{nil, 0},
		{NewOperand("a"), 1},
		{NewOperator(And, nil, nil), 1},
		{sample(), 3},
	}
	for _, tt := range tests {
		if got := Depth(tt.n); got != tt.want {
			t.Errorf("Depth(%s) = %d, want %d", Format(tt.n), got, tt.want)
		}
	}
}
