// internal/app/features/notify/hub.go
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one notification frame pushed to connected clients. Kind is
// one of "request", "resolved", or "refresh"; RequestID is empty for
// refresh events.
type Event struct {
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
	FromGroup bool   `json:"from_group,omitempty"`
	Status    string `json:"status,omitempty"`
}

type subscriber struct {
	id     string
	userID string
	send   chan Event
}

// Hub fans notification events out to websocket subscribers keyed by
// user ID. A user may hold several connections (multiple tabs), each
// with its own send queue; a subscriber that falls behind is dropped
// rather than blocking the fan-out.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[string]*subscriber // userID -> subID -> subscriber
	log  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs: make(map[string]map[string]*subscriber),
		log:  logger,
	}
}

const sendQueueSize = 16

// Subscribe registers a connection for userID and returns the event
// channel plus an unsubscribe func. The channel is closed on
// unsubscribe or when the subscriber is dropped for falling behind.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	sub := &subscriber{
		id:     uuid.NewString(),
		userID: userID,
		send:   make(chan Event, sendQueueSize),
	}

	h.mu.Lock()
	byUser := h.subs[userID]
	if byUser == nil {
		byUser = make(map[string]*subscriber)
		h.subs[userID] = byUser
	}
	byUser[sub.id] = sub
	h.mu.Unlock()

	return sub.send, func() { h.drop(sub) }
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	byUser := h.subs[sub.userID]
	if byUser != nil {
		if _, ok := byUser[sub.id]; ok {
			delete(byUser, sub.id)
			close(sub.send)
		}
		if len(byUser) == 0 {
			delete(h.subs, sub.userID)
		}
	}
	h.mu.Unlock()
}

// Notify delivers ev to every connection held by userID.
func (h *Hub) Notify(userID string, ev Event) {
	h.mu.RLock()
	var slow []*subscriber
	for _, sub := range h.subs[userID] {
		select {
		case sub.send <- ev:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.log.Warn("dropping slow notify subscriber",
			zap.String("user_id", sub.userID),
			zap.String("sub_id", sub.id))
		h.drop(sub)
	}
}

// Broadcast delivers ev to every connected user. Used for refresh
// bumps where the affected recipients cannot be determined.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	users := make([]string, 0, len(h.subs))
	for userID := range h.subs {
		users = append(users, userID)
	}
	h.mu.RUnlock()

	for _, userID := range users {
		h.Notify(userID, ev)
	}
}

// Close drops every subscriber. Used at shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	for _, byUser := range h.subs {
		for _, sub := range byUser {
			close(sub.send)
		}
	}
	h.subs = make(map[string]map[string]*subscriber)
	h.mu.Unlock()
}

// pingInterval keeps intermediaries from idling out quiet connections.
const pingInterval = 30 * time.Second
