// Package patch models partial-update payloads where a field can be absent,
// explicitly null, or carry a value.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is an optional JSON field. The zero value means "not supplied".
type Field[T any] struct {
	set   bool
	null  bool
	value T
}

// Of returns a field carrying v.
func Of[T any](v T) Field[T] {
	return Field[T]{set: true, value: v}
}

// Null returns a field that was supplied as JSON null.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// IsSet reports whether the field appeared in the payload (null included).
func (f Field[T]) IsSet() bool { return f.set }

// IsNull reports whether the field was supplied as null.
func (f Field[T]) IsNull() bool { return f.set && f.null }

// Get returns the value and whether a non-null value was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set && !f.null
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(b, &f.value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
