package events

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Kind names what changed
type Kind string

const (
	AccountCreated  Kind = "account_created"
	AccountUpdated  Kind = "account_updated"
	AccountDeleted  Kind = "account_deleted"
	SnapshotCreated Kind = "snapshot_created"
	SnapshotUpdated Kind = "snapshot_updated"
	SnapshotDeleted Kind = "snapshot_deleted"
	RatesUpdated    Kind = "rates_updated"
)

// Event notifies subscribers that portfolio data changed
type Event struct {
	Kind     Kind
	EntityID string
	At       time.Time
}

// Publisher is what mutating services depend on
type Publisher interface {
	Publish(ev Event)
}

const defaultBuffer = 16

// Hub fans change events out to subscribers.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	closed bool

	dropped uint64
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   map[uint64]chan Event{},
		logger: logger,
	}
}

// Subscribe registers a buffered channel. The returned cancel func unregisters and closes it.
func (h *Hub) Subscribe(buf int) (<-chan Event, func()) {
	if buf <= 0 {
		buf = defaultBuffer
	}
	ch := make(chan Event, buf)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			n := atomic.AddUint64(&h.dropped, 1)
			h.logger.Debug("event dropped for slow subscriber",
				zap.String("kind", string(ev.Kind)),
				zap.Uint64("dropped_total", n),
			)
		}
	}
}

// Dropped reports how many deliveries were skipped because a subscriber was full
func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// Subscribers reports the number of live subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscriber channel. Later Subscribe calls get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
