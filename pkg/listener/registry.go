package listener

import (
	"runtime/debug"
	"slices"
	"sync"
)

// Func is a callback receiving the dispatched event.
type Func[E any] func(E)

type registration[E any] struct {
	handle  Handle
	fn      Func[E]
	once    bool
	removed bool
}

// Registry is an ordered collection of listeners for events of type E.
// The zero value is ready to use. A Registry must not be copied after first use.
type Registry[E any] struct {
	// regs are the live registrations in registration order.
	regs []*registration[E]

	// mu protects regs and the removed flags. It is never held while a
	// listener runs.
	mu sync.Mutex
}

// Add appends fn and returns the handle of the new registration.
// A nil fn is ignored and yields the zero Handle.
func (r *Registry[E]) Add(fn Func[E]) Handle {
	return r.add(fn, false)
}

// Once is like Add, but the registration is removed right before its first
// invocation.
func (r *Registry[E]) Once(fn Func[E]) Handle {
	return r.add(fn, true)
}

func (r *Registry[E]) add(fn Func[E], once bool) Handle {
	if fn == nil {
		return Handle{}
	}
	reg := &registration[E]{handle: nextHandle(), fn: fn, once: once}

	r.mu.Lock()
	r.regs = append(r.regs, reg)
	r.mu.Unlock()

	return reg.handle
}

// Remove removes the registration identified by h. It reports whether a
// registration was removed; unknown or already removed handles are a no-op.
func (r *Registry[E]) Remove(h Handle) bool {
	if !h.Valid() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.regs {
		if reg.handle == h {
			r.removeLocked(i)
			return true
		}
	}
	return false
}

// removeLocked drops the registration at index i while keeping order.
func (r *Registry[E]) removeLocked(i int) {
	r.regs[i].removed = true
	r.regs = slices.Delete(r.regs, i, i+1)
}

// Has reports whether h identifies a live registration.
func (r *Registry[E]) Has(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.regs {
		if reg.handle == h {
			return true
		}
	}
	return false
}

// Len returns the number of live registrations.
func (r *Registry[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}

// Clear removes every registration. A dispatch in progress skips the listeners
// it has not reached yet.
func (r *Registry[E]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, reg := range r.regs {
		reg.removed = true
	}
	r.regs = nil
}

// Dispatch invokes the registered listeners in registration order with e.
//
// Listeners run synchronously before Dispatch returns. A panicking listener is
// recovered and the remaining listeners still run. If any listener panicked,
// Dispatch returns a *DispatchError holding one *Failure per panic.
func (r *Registry[E]) Dispatch(e E) error {
	// Copy registrations while holding lock
	r.mu.Lock()
	if len(r.regs) == 0 {
		r.mu.Unlock()
		return nil
	}
	snapshot := make([]*registration[E], len(r.regs))
	copy(snapshot, r.regs)
	r.mu.Unlock()

	var failures []*Failure
	for i, reg := range snapshot {
		if !r.claim(reg) {
			continue
		}
		if f := invoke(reg, e); f != nil {
			f.Index = i
			failures = append(failures, f)
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return &DispatchError{Failures: failures}
}

// claim reports whether reg may run now. Once registrations are removed here,
// before they run.
func (r *Registry[E]) claim(reg *registration[E]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg.removed {
		return false
	}
	if reg.once {
		if i := slices.Index(r.regs, reg); i >= 0 {
			r.removeLocked(i)
		}
	}
	return true
}

func invoke[E any](reg *registration[E], e E) (failure *Failure) {
	defer func() {
		if v := recover(); v != nil {
			failure = &Failure{
				Handle: reg.handle,
				Value:  v,
				Stack:  debug.Stack(),
			}
		}
	}()
	reg.fn(e)
	return nil
}
