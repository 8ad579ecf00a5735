package codec

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/valyala/fastjson"

	"mercator-hq/verdict/pkg/rule/ast"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
	"mercator-hq/verdict/pkg/rule/parser"
)

func TestEncode_JSON(t *testing.T) {
	tests := []struct {
		name string
		n    ast.Node
		want string
	}{
		{
			name: "nil",
			n:    nil,
			want: `null`,
		},
		{
			name: "operand",
			n:    ast.NewOperand("age > 30"),
			want: `{"type":"operand","left":null,"right":null,"value":"age > 30"}`,
		},
		{
			name: "operator",
			n:    parser.Parse("age > 30 AND country = 'US'"),
			want: `{"type":"operator","left":{"type":"operand","left":null,"right":null,"value":"age > 30"},` +
				`"right":{"type":"operand","left":null,"right":null,"value":"country = 'US'"},"value":"AND"}`,
		},
		{
			name: "one-sided operator",
			n:    ast.NewOperator(ast.Or, nil, ast.NewOperand("a > 1")),
			want: `{"type":"operator","left":null,"right":{"type":"operand","left":null,"right":null,"value":"a > 1"},"value":"OR"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Encode(tt.n))
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Encode() JSON =\n%s\nwant\n%s", data, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	combined, err := parser.Combine([]string{"a > 1 OR b > 2", "c > 3", "d = 'x'"})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	trees := []ast.Node{
		nil,
		parser.Parse(""),
		parser.Parse("age > 30"),
		parser.Parse("age > 30 AND country = 'US'"),
		parser.Parse("plan = 'pro' OR seats > 10"),
		parser.Parse("BRAND = 'x'"),
		combined,
		ast.NewOperator(ast.And, nil, nil),
	}

	for _, tree := range trees {
		t.Run(ast.Format(tree), func(t *testing.T) {
			data, err := json.Marshal(Encode(tree))
			if err != nil {
				t.Fatalf("json.Marshal() error = %v", err)
			}
			got, err := DecodeBytes(data)
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}
			if diff := cmp.Diff(tree, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Null(t *testing.T) {
	got, err := Decode(nil)
	if err != nil || got != nil {
		t.Errorf("Decode(nil) = (%v, %v), want (nil, nil)", got, err)
	}

	got, err = DecodeBytes([]byte("null"))
	if err != nil || got != nil {
		t.Errorf("DecodeBytes(null) = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestDecode_UnknownCombinator(t *testing.T) {
	got, err := DecodeBytes([]byte(`{"type":"operator","left":null,"right":null,"value":"XOR"}`))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	op, ok := got.(*ast.Operator)
	if !ok || op.Op != "XOR" {
		t.Errorf("DecodeBytes() = %s, want operator XOR", ast.Format(got))
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"missing value", `{"type":"operand"}`, `missing required field "value" at $`},
		{"missing type", `{"value":"a > 1"}`, `missing required field "type" at $`},
		{"type not string", `{"type":1,"value":"a"}`, `field "type" must be a string, got number`},
		{"value not string", `{"type":"operand","value":30}`, `field "value" must be a string, got number`},
		{"not an object", `[1,2]`, "expected object or null, got array"},
		{"string root", `"age > 30"`, "expected object or null, got string"},
		{"unknown type", `{"type":"operant","value":"a"}`, `unknown node type "operant" at $ (Did you mean 'operand'?)`},
		{"operand with child", `{"type":"operand","left":{"type":"operand","value":"x"},"value":"a"}`, `operand must not have a "left" child`},
		{"bad nested child", `{"type":"operator","left":{"type":"operand","value":"a"},"right":{"type":"operator","left":7,"value":"OR"},"value":"AND"}`, "got number at $.right.left"},
		{"invalid json", `{"type":`, "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBytes([]byte(tt.input))
			if err == nil {
				t.Fatalf("DecodeBytes() = %s, want error", ast.Format(got))
			}
			if !errors.Is(err, ruleerrors.ErrMalformedAST) {
				t.Errorf("DecodeBytes() error kind = %q, want malformed_ast", ruleerrors.KindOf(err))
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("DecodeBytes() error = %q, want it to contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestDecoder_MaxDepth(t *testing.T) {
	var tree ast.Node = ast.NewOperand("a > 1")
	for i := 0; i < 4; i++ {
		tree = ast.NewOperator(ast.And, tree, nil)
	}
	data, err := json.Marshal(Encode(tree))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	if _, err := NewDecoder().WithMaxDepth(5).DecodeBytes(data); err != nil {
		t.Errorf("depth 5 with limit 5: error = %v", err)
	}

	_, err = NewDecoder().WithMaxDepth(4).DecodeBytes(data)
	if !errors.Is(err, ruleerrors.ErrMalformedAST) {
		t.Fatalf("depth 5 with limit 4: error = %v, want malformed_ast", err)
	}
	if !strings.Contains(err.Error(), "maximum depth 4") {
		t.Errorf("error = %q, want depth message", err.Error())
	}
}

func TestDecode_SubtreeOfLargerDocument(t *testing.T) {
	var p fastjson.Parser
	v, err := p.Parse(`{"user_data":{"age":40},"json_data":{"type":"operand","left":null,"right":null,"value":"age > 30"}}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got, err := Decode(v.Get("json_data"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(ast.Node(ast.NewOperand("age > 30")), got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}
