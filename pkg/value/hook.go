package value

// Hook observes the writes of a Value. Hooks are how metrics and tracing are
// attached; they run synchronously inside Set.
type Hook interface {
	// Skipped is called when a write is equal to the current state.
	Skipped(cell string)

	// Dispatching is called after a change has been stored and before its
	// listeners run. The returned func, if not nil, is called once the dispatch
	// pass is over with the error Set is about to return.
	Dispatching(cell string, listeners int) func(err error)
}

// HookFuncs adapts plain functions to Hook. Nil fields are ignored.
type HookFuncs struct {
	OnSkipped     func(cell string)
	OnDispatching func(cell string, listeners int) func(err error)
}

// Skipped implements Hook.
func (h HookFuncs) Skipped(cell string) {
	if h.OnSkipped != nil {
		h.OnSkipped(cell)
	}
}

// Dispatching implements Hook.
func (h HookFuncs) Dispatching(cell string, listeners int) func(err error) {
	if h.OnDispatching != nil {
		return h.OnDispatching(cell, listeners)
	}
	return nil
}
