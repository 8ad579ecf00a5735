package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/valyala/fastjson"
)

// MsgBodyTooLarge is the error body of an oversized request.
const MsgBodyTooLarge = "Request body too large"

var parserPool fastjson.ParserPool

// errBodyTooLarge is returned by readObject when the body exceeds the limit.
var errBodyTooLarge = errors.New(MsgBodyTooLarge)

// readObject reads the request body and parses it as a JSON object. The
// returned value is only valid until release is called.
func readObject(w http.ResponseWriter, r *http.Request, limit int64) (v *fastjson.Value, release func(), err error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, errBodyTooLarge
		}
		return nil, nil, fmt.Errorf("Invalid JSON: %w", err)
	}

	p := parserPool.Get()
	release = func() { parserPool.Put(p) }

	v, err = p.ParseBytes(data)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("Invalid JSON: %w", err)
	}
	if v.Type() != fastjson.TypeObject {
		release()
		return nil, nil, fmt.Errorf("Invalid JSON: request body must be an object, got %s", v.Type())
	}
	return v, release, nil
}

// writeBodyError answers a readObject failure.
func writeBodyError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// optionalString returns the string at key. A missing or null field is "".
func optionalString(obj *fastjson.Value, key string) (string, error) {
	v := obj.Get(key)
	if v == nil || v.Type() == fastjson.TypeNull {
		return "", nil
	}
	b, err := v.StringBytes()
	if err != nil {
		return "", fmt.Errorf("%s must be a string, got %s", key, v.Type())
	}
	return string(b), nil
}

// optionalStrings returns the string array at key. A missing or null field
// is nil.
func optionalStrings(obj *fastjson.Value, key string) ([]string, error) {
	v := obj.Get(key)
	if v == nil || v.Type() == fastjson.TypeNull {
		return nil, nil
	}
	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("%s must be an array of strings, got %s", key, v.Type())
	}
	out := make([]string, len(items))
	for i, item := range items {
		b, err := item.StringBytes()
		if err != nil {
			return nil, fmt.Errorf("%s[%d] must be a string, got %s", key, i, item.Type())
		}
		out[i] = string(b)
	}
	return out, nil
}
