package eval

import (
	"math"
	"strconv"

	"github.com/valyala/fastjson"

	ruleerrors "mercator-hq/verdict/pkg/rule/errors"
)

// ValueKind identifies the variant held by a Value.
type ValueKind int

const (
	KindInteger ValueKind = iota + 1
	KindText
)

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// Value is a fact value: either an Integer or a Text.
type Value struct {
	kind ValueKind
	i    int64
	s    string
}

// Integer creates an integer fact value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

// Text creates a text fact value.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer and true when v is an Integer.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// Str returns the text and true when v is a Text.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindText
}

// String renders the value for logs.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindText:
		return strconv.Quote(v.s)
	default:
		return "<invalid>"
	}
}

// Facts is the record a tree is evaluated against.
type Facts map[string]Value

// FactsFromJSON converts a JSON object into facts. Integral numbers become
// Integer values and strings become Text values; any other JSON type is an
// invalid_input error naming the key.
func FactsFromJSON(v *fastjson.Value) (Facts, error) {
	if v == nil {
		return nil, ruleerrors.New(ruleerrors.KindInvalidInput, "facts must be a JSON object")
	}
	obj, err := v.Object()
	if err != nil {
		return nil, ruleerrors.New(ruleerrors.KindInvalidInput, "facts must be a JSON object")
	}

	facts := make(Facts, obj.Len())
	obj.Visit(func(key []byte, fv *fastjson.Value) {
		if err != nil {
			return
		}
		var val Value
		val, err = valueFromJSON(string(key), fv)
		if err == nil {
			facts[string(key)] = val
		}
	})
	if err != nil {
		return nil, err
	}
	return facts, nil
}

func valueFromJSON(key string, v *fastjson.Value) (Value, error) {
	switch v.Type() {
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return Text(string(b)), nil

	case fastjson.TypeNumber:
		if i, err := v.Int64(); err == nil {
			return Integer(i), nil
		}
		if f, err := v.Float64(); err == nil {
			if i, ok := integral(f); ok {
				return Integer(i), nil
			}
		}
		return Value{}, ruleerrors.New(ruleerrors.KindInvalidInput,
			"fact %q must be an integer or a string, got %s", key, v.String())

	default:
		return Value{}, ruleerrors.New(ruleerrors.KindInvalidInput,
			"fact %q must be an integer or a string, got %s", key, v.Type())
	}
}

// FactsFromMap converts decoded YAML or JSON data into facts. It accepts the
// Go integer types, integral floats and strings.
func FactsFromMap(m map[string]any) (Facts, error) {
	facts := make(Facts, len(m))
	for key, raw := range m {
		switch x := raw.(type) {
		case string:
			facts[key] = Text(x)
		case int:
			facts[key] = Integer(int64(x))
		case int32:
			facts[key] = Integer(int64(x))
		case int64:
			facts[key] = Integer(x)
		case uint64:
			if x > math.MaxInt64 {
				return nil, ruleerrors.New(ruleerrors.KindInvalidInput, "fact %q overflows int64", key)
			}
			facts[key] = Integer(int64(x))
		case float64:
			i, ok := integral(x)
			if !ok {
				return nil, ruleerrors.New(ruleerrors.KindInvalidInput,
					"fact %q must be an integer or a string, got %v", key, x)
			}
			facts[key] = Integer(i)
		default:
			return nil, ruleerrors.New(ruleerrors.KindInvalidInput,
				"fact %q must be an integer or a string, got %T", key, raw)
		}
	}
	return facts, nil
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
