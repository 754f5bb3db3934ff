package realtime

import (
	"encoding/json"
	"sync"

	"github.com/beckernir/AUCA-HR/prometheus"
	"go.uber.org/zap"
)

// Event is the JSON envelope pushed to connected clients
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub tracks connected websocket clients by user id and room subscription.
// It is the delivery side of notification dispatch and chat broadcast; all
// sends are best-effort, a user with no connected client is simply skipped.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[*Client]bool
	rooms   map[string]map[*Client]bool
	log     *zap.Logger
}

// NewHub creates an empty hub
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*Client]bool)
	}
	h.clients[c.userID][c] = true
	prometheus.ActiveWebsocketGauge.Inc()
	h.log.Debug("websocket client connected", zap.Uint("user_id", c.userID))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.userID]; ok && set[c] {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
		close(c.send)
		prometheus.ActiveWebsocketGauge.Dec()
	}
	for room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.log.Debug("websocket client disconnected", zap.Uint("user_id", c.userID))
}

func (h *Hub) subscribe(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	c.rooms[room] = true
}

func (h *Hub) unsubscribe(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// SendToUser pushes an event to every connection of the given user and
// reports whether at least one connection received it.
func (h *Hub) SendToUser(userID uint, event Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.Error(err))
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := false
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
			delivered = true
		default:
			// Slow client, drop the event rather than block the caller
			h.log.Warn("websocket send buffer full, dropping event",
				zap.Uint("user_id", userID),
				zap.String("event", event.Event))
		}
	}
	return delivered
}

// Broadcast pushes an event to every subscriber of a room
func (h *Hub) Broadcast(room string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- data:
		default:
			h.log.Warn("websocket send buffer full, dropping event",
				zap.Uint("user_id", c.userID),
				zap.String("room", room))
		}
	}
}

// ConnectedUsers returns the number of distinct users with a live connection
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
