// Package realtime fans out row-change notifications to subscribers keyed by
// table name.
package realtime

import (
	"context"
	"log/slog"
	"sync"
)

// Change says that rows of Table owned by Owner were written.
type Change struct {
	Table string `json:"table"`
	Owner string `json:"owner"`
}

const subscriberBuffer = 16

type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]chan Change
	nextID int
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[int]chan Change),
		logger: logger,
	}
}

// Subscribe returns a channel receiving changes to table and a cancel func
// that unsubscribes and closes the channel. Cancel is safe to call twice.
func (h *Hub) Subscribe(table string) (<-chan Change, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Change, subscriberBuffer)
	if h.subs[table] == nil {
		h.subs[table] = make(map[int]chan Change)
	}
	h.subs[table][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[table], id)
			if len(h.subs[table]) == 0 {
				delete(h.subs, table)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers c to every subscriber of c.Table without blocking.
// A subscriber whose buffer is full misses the change.
func (h *Hub) Publish(c Change) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[c.Table] {
		select {
		case ch <- c:
		default:
			h.logger.Warn("dropping realtime change for slow subscriber", "table", c.Table, "owner", c.Owner)
		}
	}
}

// Notify satisfies store.Notifier.
func (h *Hub) Notify(_ context.Context, table, owner string) {
	h.Publish(Change{Table: table, Owner: owner})
}
