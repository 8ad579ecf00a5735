// Package handlers implements the HTTP handlers of the rule API.
//
// Request bodies are parsed with fastjson so a serialized tree can be handed
// to the codec without an intermediate map. Responses are written with
// encoding/json from the types package.
//
// Status codes:
//
//	400  invalid_input or malformed_ast, and unparseable request JSON
//	404  unknown rule ID
//	413  request body over the configured limit
//	422  failures while deciding a tree against facts
//	500  anything else
package handlers
