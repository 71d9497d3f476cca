package domain

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

const redacted = "[REDACTED]"

// Secret wraps a sensitive value so that fmt, slog and encoding/json print
// a placeholder instead of the value. Expose returns the wrapped value.
//
// Secret is comparable when T is comparable, so values built from it can be
// used as map keys.
type Secret[T any] struct {
	value T
}

// NewSecret wraps v.
func NewSecret[T any](v T) Secret[T] {
	return Secret[T]{value: v}
}

// Expose returns the wrapped value. Call sites are the only places where the
// raw value leaves the wrapper.
func (s Secret[T]) Expose() T {
	return s.value
}

func (s Secret[T]) String() string {
	return redacted
}

func (s Secret[T]) GoString() string {
	return redacted
}

// Format keeps %v, %+v, %#v, %s and %q from reaching the wrapped value.
func (s Secret[T]) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(redacted))
}

func (s Secret[T]) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

func (s Secret[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(redacted)
}
