package value

import "github.com/vango-dev/observe/pkg/listener"

// Listener receives the state before and after a change.
type Listener[T any] func(old, new T)

// Readable is the read-only view of a Value. Hand it out where callers should
// observe state without being able to write it.
type Readable[T any] interface {
	Get() T
	On(fn Listener[T]) listener.Handle
	Once(fn Listener[T]) listener.Handle
	Off(h listener.Handle) bool
}

// Writable is the read/write view of a Value.
type Writable[T any] interface {
	Readable[T]
	Set(next T) error
	Update(fn func(T) T) error
}

var _ Writable[int] = (*Value[int])(nil)
