package listener

import (
	"errors"
	"fmt"
	"strings"
)

// ErrListenerPanic is matched by every *Failure through errors.Is.
var ErrListenerPanic = errors.New("observe: listener panicked")

// Failure records a listener that panicked during a dispatch.
type Failure struct {
	// Handle identifies the registration that panicked.
	Handle Handle

	// Index is the position of the listener in the dispatch snapshot.
	Index int

	// Value is the value passed to panic.
	Value any

	// Stack is the goroutine stack captured when the panic was recovered.
	Stack []byte
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("observe: listener %d panicked: %v", f.Index, f.Value)
}

// Is makes errors.Is(err, ErrListenerPanic) match any failure.
func (f *Failure) Is(target error) bool {
	return target == ErrListenerPanic
}

// Unwrap returns the panic value when it is an error.
func (f *Failure) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// DispatchError aggregates the failures of one dispatch pass.
type DispatchError struct {
	Failures []*Failure
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("observe: %d listeners panicked: %s", len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *DispatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Failures returns the listener failures carried by err, or nil.
func Failures(err error) []*Failure {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Failures
	}
	var f *Failure
	if errors.As(err, &f) {
		return []*Failure{f}
	}
	return nil
}
