// Package opt provides a JSON-aware optional field that distinguishes a
// field that was omitted from the request body from one that was explicitly
// set to null. Partial-update inputs use it for nullable columns, where a
// plain pointer cannot express "clear this value".
package opt

import "encoding/json"

// Field wraps a value of type T for use in PATCH request bodies.
// Set reports whether the field appeared in the JSON at all; Valid reports
// whether it carried a non-null value.
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Of returns a Field carrying the given value.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

// Null returns a Field that was explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the value as a pointer suitable for a nullable SQL parameter:
// nil when the field was null, the value otherwise.
func (f Field[T]) Ptr() *T {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
