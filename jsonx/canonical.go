package jsonx

import (
	"bytes"
	"encoding/json"
)

// Canonical returns the canonical JSON encoding of v: object keys sorted
// lexicographically, no insignificant whitespace. Semantically equal values
// always produce the same byte sequence, which makes the output safe to
// feed into a digest.
//
// The value is round-tripped through a generic decode so that a struct and
// the equivalent map (e.g. a record payload reloaded from storage) share one
// canonical form. Numbers are preserved verbatim via json.Number.
func Canonical(v interface{}) (json.RawMessage, error) {
	data, err := jsonx.Marshal(v)
	if err != nil {
		return nil, err
	}
	decoder := jsonx.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var decoded interface{}
	if err := decoder.Decode(&decoded); err != nil {
		return nil, err
	}
	return jsonx.Marshal(decoded)
}
