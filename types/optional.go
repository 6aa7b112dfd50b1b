package types

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

type (
	// Optional is a value that may be absent. It is used for the tagged
	// loop/limit markers of a clip, so that slicing logic has to handle the
	// missing case explicitly instead of relying on sentinel values.
	Optional[T comparable] struct {
		value  T
		exists bool
	}
)

func NewOptional[T comparable](value T) Optional[T] {
	return Optional[T]{value: value, exists: true}
}

func NewEmptyOptional[T comparable]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Unpack() (T, bool) {
	return o.value, o.exists
}

func (o Optional[T]) Value() T {
	if !o.exists {
		panic("Access value of empty Optional")
	}
	return o.value
}

func (o Optional[T]) Empty() bool {
	return !o.exists
}

func (o Optional[T]) Equals(value T) bool {
	return o.exists && o.value == value
}

// IsZero reports whether the Optional is empty, so that yaml's omitempty
// leaves empty markers out of the output.
func (o Optional[T]) IsZero() bool {
	return !o.exists
}

// Or returns the contained value, or def if the Optional is empty.
func (o Optional[T]) Or(def T) T {
	if !o.exists {
		return def
	}
	return o.value
}

// Map returns an Optional with f applied to the contained value, or an empty
// Optional as is.
func Map[T, U comparable](o Optional[T], f func(T) U) Optional[U] {
	if !o.exists {
		return Optional[U]{}
	}
	return NewOptional(f(o.value))
}

func (o Optional[T]) MarshalYAML() (interface{}, error) {
	if !o.exists {
		return nil, nil
	}
	return o.value, nil
}

func (o *Optional[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*o = NewOptional(v)
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.exists {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = NewOptional(v)
	return nil
}
