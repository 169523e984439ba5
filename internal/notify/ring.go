package notify

import "sync"

// Ring is a fixed-capacity circular history of notifications so that
// late subscribers can catch up on recent backend activity.
type Ring struct {
	mu       sync.RWMutex
	entries  []Notification
	capacity int
	next     int
	wrapped  bool
}

// NewRing builds a ring holding at most capacity notifications.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{
		entries:  make([]Notification, capacity),
		capacity: capacity,
	}
}

// Append records one notification, evicting the oldest once full.
func (r *Ring) Append(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = n
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.wrapped = true
	}
}

// Snapshot returns retained notifications in chronological order.
func (r *Ring) Snapshot() []Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.wrapped {
		out := make([]Notification, r.next)
		copy(out, r.entries[:r.next])
		return out
	}

	out := make([]Notification, r.capacity)
	copy(out, r.entries[r.next:])
	copy(out[r.capacity-r.next:], r.entries[:r.next])
	return out
}

// Len reports how many notifications are currently retained.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.wrapped {
		return r.capacity
	}
	return r.next
}
