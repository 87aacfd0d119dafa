package listener

import "sync/atomic"

// handleCounter is shared by all registries so that a Handle never matches a
// registration in a registry it did not come from.
var handleCounter uint64

func nextHandle() Handle {
	return Handle{id: atomic.AddUint64(&handleCounter, 1)}
}

// Handle identifies a single registration. The zero Handle identifies nothing.
type Handle struct {
	id uint64
}

// ID returns the unique identifier of the registration.
func (h Handle) ID() uint64 {
	return h.id
}

// Valid reports whether h was returned by a registration.
func (h Handle) Valid() bool {
	return h.id != 0
}
