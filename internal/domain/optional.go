package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state field used by partial updates. A zero Optional is
// absent. Once decoded from JSON it is either an explicit null or an
// explicit value.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// IsValue reports whether the field carries a non-null value.
func (o Optional[T]) IsValue() bool {
	return o.Set && !o.Null
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the key
// is present in the document, which is what distinguishes absent from null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON implements json.Marshaler. Absent and null both encode as null;
// use omitempty-free struct tags only where that is acceptable.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.IsValue() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
