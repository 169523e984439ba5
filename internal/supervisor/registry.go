package supervisor

import "sync/atomic"

// DefaultBackendPort is reported whenever no dynamic port was assigned.
const DefaultBackendPort uint16 = 8000

// Registry holds run-scoped backend lifecycle state: the write-once
// assigned port and the exclusively owned child handle slot.
type Registry struct {
	port   atomic.Uint32
	handle atomic.Pointer[Handle]
}

// NewRegistry returns an empty lifecycle registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetPort records the assigned port once per run. It reports false when a
// port was already recorded or p is zero.
func (r *Registry) SetPort(p uint16) bool {
	if p == 0 {
		return false
	}
	return r.port.CompareAndSwap(0, uint32(p))
}

// Port returns the assigned port, or zero when none was recorded.
func (r *Registry) Port() uint16 {
	return uint16(r.port.Load())
}

// Store publishes a launched child handle into the slot.
func (r *Registry) Store(h *Handle) {
	r.handle.Store(h)
}

// Take removes and returns the child handle, or nil when the slot is
// empty. For any stored handle at most one caller observes it.
func (r *Registry) Take() *Handle {
	return r.handle.Swap(nil)
}

// Active reports whether a child handle is currently held.
func (r *Registry) Active() bool {
	return r.handle.Load() != nil
}
