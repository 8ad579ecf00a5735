// Package codec converts rule trees to and from their portable JSON form.
//
// A serialized node is an object with four fields:
//
//	{"type": "operator", "left": {...}, "right": null, "value": "AND"}
//	{"type": "operand",  "left": null,  "right": null, "value": "age > 30"}
//
// An absent tree encodes to JSON null. Encode produces a *Document that
// encoding/json marshals in that field order; Decode reads a parsed
// *fastjson.Value so HTTP handlers can decode a subtree of a larger request
// body without re-parsing it.
//
// Decode(Encode(n)) is structurally equal to n for every tree built by the
// parser.
package codec
