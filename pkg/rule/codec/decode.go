package codec

import (
	"github.com/valyala/fastjson"

	"mercator-hq/verdict/pkg/rule/ast"
	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
)

// DefaultMaxDepth bounds the nesting accepted by Decode.
const DefaultMaxDepth = 512

var nodeTypes = []string{string(ast.KindOperand), string(ast.KindOperator)}

var parserPool fastjson.ParserPool

// Decoder rebuilds trees from their serialized form.
type Decoder struct {
	maxDepth int
}

// NewDecoder creates a decoder with the default depth limit.
func NewDecoder() *Decoder {
	return &Decoder{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the maximum nesting depth. Values below 1 keep the default.
func (d *Decoder) WithMaxDepth(depth int) *Decoder {
	if depth > 0 {
		d.maxDepth = depth
	}
	return d
}

// Decode rebuilds a tree with the default decoder.
func Decode(v *fastjson.Value) (ast.Node, error) {
	return NewDecoder().Decode(v)
}

// DecodeBytes parses raw JSON and rebuilds a tree with the default decoder.
func DecodeBytes(data []byte) (ast.Node, error) {
	return NewDecoder().DecodeBytes(data)
}

// Decode rebuilds a tree from a parsed JSON value. A nil value or JSON null
// yields an absent tree. Any structural problem is reported as a
// malformed_ast error carrying the path of the offending node.
func (d *Decoder) Decode(v *fastjson.Value) (ast.Node, error) {
	return d.decode(v, "$", 1)
}

// DecodeBytes parses raw JSON and rebuilds a tree from it.
func (d *Decoder) DecodeBytes(data []byte) (ast.Node, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, ruleerrors.Wrap(ruleerrors.KindMalformedAST, err, "invalid JSON")
	}
	return d.Decode(v)
}

func (d *Decoder) decode(v *fastjson.Value, path string, depth int) (ast.Node, error) {
	if v == nil || v.Type() == fastjson.TypeNull {
		return nil, nil
	}
	if v.Type() != fastjson.TypeObject {
		return nil, malformed(path, "expected object or null, got %s", v.Type())
	}
	if depth > d.maxDepth {
		return nil, malformed(path, "tree exceeds maximum depth %d", d.maxDepth)
	}

	kind, err := stringField(v, "type", path)
	if err != nil {
		return nil, err
	}
	value, err := stringField(v, "value", path)
	if err != nil {
		return nil, err
	}

	switch ast.Kind(kind) {
	case ast.KindOperand:
		for _, child := range []string{"left", "right"} {
			if c := v.Get(child); c != nil && c.Type() != fastjson.TypeNull {
				return nil, malformed(path, "operand must not have a %q child", child)
			}
		}
		return ast.NewOperand(value), nil

	case ast.KindOperator:
		left, err := d.decode(v.Get("left"), path+".left", depth+1)
		if err != nil {
			return nil, err
		}
		right, err := d.decode(v.Get("right"), path+".right", depth+1)
		if err != nil {
			return nil, err
		}
		return ast.NewOperator(ast.Combinator(value), left, right), nil

	default:
		return nil, malformed(path, "unknown node type %q", kind).
			WithSuggestion(ruleerrors.Suggest(kind, nodeTypes))
	}
}

func stringField(v *fastjson.Value, name, path string) (string, error) {
	f := v.Get(name)
	if f == nil {
		return "", malformed(path, "missing required field %q", name)
	}
	b, err := f.StringBytes()
	if err != nil {
		return "", malformed(path, "field %q must be a string, got %s", name, f.Type())
	}
	return string(b), nil
}

func malformed(path, format string, args ...any) *ruleerrors.Error {
	return ruleerrors.New(ruleerrors.KindMalformedAST, format, args...).WithPath(path)
}
