package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks presence and value for JSON PATCH semantics (RFC 7396),
// which a plain pointer cannot express:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value=&v: field has a value
type Optional[T any] struct {
	Present bool
	Value   *T
}

// Set builds a present Optional holding v
func Set[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

// Null builds a present Optional holding JSON null
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// UnmarshalJSON is only called when the field is present in the JSON.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON writes the value, or null when absent or cleared.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
