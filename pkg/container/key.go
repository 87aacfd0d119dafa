package container

import (
	"fmt"

	"github.com/vango-dev/observe/pkg/listener"
	"github.com/vango-dev/observe/pkg/value"
)

// Key names a container key whose values have type T.
type Key[T any] struct {
	name string
}

// NewKey returns the typed key for name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key name.
func (k Key[T]) Name() string {
	return k.name
}

// Lookup returns the value of k. A nil stored value yields the zero T.
func Lookup[T any](c *Container, k Key[T]) (T, error) {
	var zero T
	v, err := c.Get(k.name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T, not %T", ErrTypeMismatch, k.name, v, zero)
	}
	return t, nil
}

// Store writes v to k.
func Store[T any](c *Container, k Key[T], v T) error {
	return c.Set(k.name, v)
}

// Watch registers fn for changes of k. Values that do not have type T are
// passed as the zero T.
func Watch[T any](c *Container, k Key[T], fn value.Listener[T]) (listener.Handle, error) {
	if fn == nil {
		return c.AddEventListener(k.name, nil)
	}
	return c.AddEventListener(k.name, func(old, new any) {
		fn(as[T](old), as[T](new))
	})
}

func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
