// Package jsonschema translates a JSON Schema document (draft-04 through
// draft-07 subset) into a regex the dfa/nfa compiler accepts, so a Guide
// can constrain generation to JSON text conforming to the schema.
package jsonschema

import "encoding/json"

// Schema is a decoded JSON Schema node. Untyped map access mirrors how the
// reference implementation's Python side walks schema dicts; no dedicated
// JSON-Schema library exists anywhere in the example pack, so this package
// is the one deliberate standard-library-only corner of the module (see
// DESIGN.md).
type Schema map[string]any

// Parse decodes raw JSON Schema bytes.
func Parse(data []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &TranslateError{Path: "$", Construct: "document", Err: err}
	}
	return s, nil
}

func (s Schema) str(key string) (string, bool) {
	v, ok := s[key].(string)
	return v, ok
}

func (s Schema) obj(key string) (Schema, bool) {
	v, ok := s[key].(map[string]any)
	if !ok {
		return nil, false
	}
	return Schema(v), true
}

func (s Schema) arr(key string) ([]any, bool) {
	v, ok := s[key].([]any)
	return v, ok
}

func (s Schema) strArr(key string) []string {
	vals, ok := s.arr(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
