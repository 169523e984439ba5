package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification channels emitted toward the consuming application.
const (
	ChannelBackendOutput     = "backend output"
	ChannelBackendError      = "backend error"
	ChannelBackendTerminated = "backend terminated"
)

const (
	DefaultHistorySize   = 256
	subscriberBufferSize = 100
)

// Notification is one externally visible supervisor event on a named channel.
type Notification struct {
	Channel  string    `json:"channel"`
	Text     string    `json:"text,omitempty"`
	ExitCode *int      `json:"exit_code,omitempty"`
	At       time.Time `json:"at"`
}

// Hub fans notifications out to attached subscribers and keeps bounded
// replay history for subscribers that attach late.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan Notification
	history     *Ring
}

// NewHub builds a hub retaining historySize notifications for replay.
func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Hub{
		subscribers: make(map[string]chan Notification),
		history:     NewRing(historySize),
	}
}

// Publish records the notification and delivers it to every subscriber.
// Subscribers with full buffers are skipped rather than blocked on.
func (h *Hub) Publish(n Notification) {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	h.history.Append(n)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers {
		select {
		case ch <- n:
		default:
			// Subscriber buffer full, drop.
		}
	}
}

// Subscribe attaches one subscriber and returns its id, live channel, and
// the replay history captured before attachment.
func (h *Hub) Subscribe() (string, <-chan Notification, []Notification) {
	id := uuid.New().String()
	ch := make(chan Notification, subscriberBufferSize)

	// Snapshot history before registering to avoid duplicate delivery.
	replay := h.history.Snapshot()

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	return id, ch, replay
}

// Unsubscribe detaches a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

// SubscriberCount reports the number of attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// History returns retained notifications in chronological order.
func (h *Hub) History() []Notification {
	return h.history.Snapshot()
}
