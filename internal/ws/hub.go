// Package ws pushes activity updates (order lifecycle changes, journal
// entries) to connected dashboard clients.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Activity is one broadcast payload.
type Activity struct {
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entity_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	ActorName string    `json:"actor_name,omitempty"`
	At        time.Time `json:"at"`
}

// Activity kinds.
const (
	KindOrderCreated  = "order_created"
	KindOrderBinned   = "order_binned"
	KindOrderRestored = "order_restored"
	KindOrderPurged   = "order_purged"
	KindOrderEvent    = "order_event_added"
	KindJournalEntry  = "journal_entry"
)

// Hub fans activity out to all connected clients. Slow clients are dropped
// rather than blocking the broadcast loop.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	broadcast  chan Activity
	register   chan *Client
	unregister chan *Client

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Activity, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run drives the hub until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.close()
			}
			h.clients = make(map[*Client]struct{})
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
			h.mu.Unlock()

		case a := <-h.broadcast:
			payload, err := json.Marshal(a)
			if err != nil {
				h.logger.Error("failed to marshal activity", zap.Error(err))
				continue
			}

			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// Client is not keeping up; drop it.
					go func(c *Client) { h.unregister <- c }(c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish queues an activity for broadcast. Nil-safe and non-blocking so
// services can publish without caring whether the hub is wired.
func (h *Hub) Publish(a Activity) {
	if h == nil {
		return
	}
	if a.At.IsZero() {
		a.At = time.Now()
	}
	select {
	case h.broadcast <- a:
	default:
		h.logger.Warn("activity broadcast buffer full, dropping", zap.String("kind", a.Kind))
	}
}
