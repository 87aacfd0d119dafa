package value

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/observe/pkg/listener"
	"github.com/vango-dev/observe/pkg/structural"
)

// Change is the event dispatched to listeners of a Value.
type Change[T any] struct {
	Old T
	New T
}

// Value is an observable slot holding a value of type T.
type Value[T any] struct {
	name   string
	mode   Mode
	logger *slog.Logger
	hooks  []Hook

	// equal replaces structural comparison when set.
	equal func(a, b T) bool

	// current is the stored value.
	current T

	// mu protects current. It is released before listeners run.
	mu sync.RWMutex

	listeners listener.Registry[Change[T]]
}

// New creates a Value holding initial.
func New[T any](initial T, opts ...Option) *Value[T] {
	cfg := newConfig(opts)
	return &Value[T]{
		name:    cfg.name,
		mode:    cfg.mode,
		logger:  cfg.logger,
		hooks:   cfg.hooks,
		current: initial,
	}
}

// WithEqual sets the equality function used to decide whether a write is a
// change. It is meant to be called right after New:
//
//	v := value.New(point{}).WithEqual(func(a, b point) bool { return a.X == b.X })
func (v *Value[T]) WithEqual(fn func(a, b T) bool) *Value[T] {
	v.mu.Lock()
	v.equal = fn
	v.mu.Unlock()
	return v
}

// Name returns the name given with WithName.
func (v *Value[T]) Name() string {
	return v.name
}

// Mode returns the write mode.
func (v *Value[T]) Mode() Mode {
	return v.mode
}

// Get returns the current value. Maps and slices are returned by reference;
// writing through them does not notify listeners.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set writes next and, if that changed the state, notifies every listener
// before returning. The returned error is a *listener.DispatchError when one or
// more listeners panicked; the write itself has happened regardless.
func (v *Value[T]) Set(next T) error {
	v.mu.Lock()
	old, changed := v.apply(next)
	current := v.current
	v.mu.Unlock()

	if !changed {
		for _, h := range v.hooks {
			h.Skipped(v.name)
		}
		return nil
	}
	return v.dispatch(Change[T]{Old: old, New: current})
}

// Update writes the result of fn applied to the current value.
// fn runs outside the value lock; Update is not atomic across goroutines.
func (v *Value[T]) Update(fn func(T) T) error {
	if fn == nil {
		return nil
	}
	return v.Set(fn(v.Get()))
}

// apply decides whether next changes the state and stores it. Must be called
// with mu held.
func (v *Value[T]) apply(next T) (old T, changed bool) {
	cur := v.current

	if v.mode == ModeMerge && structural.IsRecord(cur) && structural.IsRecord(next) {
		if v.partialEquals(cur, next) || v.equals(cur, next) {
			return cur, false
		}
		snapshot := clone(cur)
		if structural.Assign(cur, next) {
			return snapshot, true
		}
		// Record types that cannot be assigned into each other are replaced.
	} else if v.equals(cur, next) {
		return cur, false
	}

	v.current = next
	return cur, true
}

func (v *Value[T]) equals(a, b T) bool {
	if v.equal != nil {
		return v.equal(a, b)
	}
	return structural.Equal(a, b)
}

func (v *Value[T]) partialEquals(a, b T) bool {
	if v.equal != nil {
		return v.equal(a, b)
	}
	return structural.PartialEqual(a, b)
}

func (v *Value[T]) dispatch(c Change[T]) error {
	n := v.listeners.Len()

	done := make([]func(error), 0, len(v.hooks))
	for _, h := range v.hooks {
		if fn := h.Dispatching(v.name, n); fn != nil {
			done = append(done, fn)
		}
	}

	v.logger.Debug("value changed", "cell", v.name, "listeners", n)
	err := v.listeners.Dispatch(c)
	for _, f := range listener.Failures(err) {
		v.logger.Warn("listener panicked",
			"cell", v.name,
			"listener", f.Handle.ID(),
			"panic", f.Value,
		)
	}

	for _, fn := range done {
		fn(err)
	}
	return err
}

// On registers fn to be called on every change.
func (v *Value[T]) On(fn Listener[T]) listener.Handle {
	if fn == nil {
		return listener.Handle{}
	}
	return v.listeners.Add(func(c Change[T]) { fn(c.Old, c.New) })
}

// Once registers fn to be called on the next change only.
func (v *Value[T]) Once(fn Listener[T]) listener.Handle {
	if fn == nil {
		return listener.Handle{}
	}
	return v.listeners.Once(func(c Change[T]) { fn(c.Old, c.New) })
}

// Off removes the listener registered under h. It reports whether a listener
// was removed.
func (v *Value[T]) Off(h listener.Handle) bool {
	return v.listeners.Remove(h)
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is a no-op.
func (v *Value[T]) Subscribe(fn Listener[T]) func() {
	h := v.On(fn)
	return func() { v.Off(h) }
}

// Listeners returns the number of registered listeners.
func (v *Value[T]) Listeners() int {
	return v.listeners.Len()
}

// clone returns a shallow copy of a map or slice held in t.
func clone[T any](t T) T {
	if c, ok := structural.Clone(t).(T); ok {
		return c
	}
	return t
}
