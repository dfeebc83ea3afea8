package events

import (
	"sync"
	"time"

	"servicehub/internal/domain"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Message is what subscribers receive for every lifecycle event.
type Message struct {
	Type        string       `json:"type"`
	AggregateID string       `json:"aggregate_id"`
	OccurredAt  time.Time    `json:"occurred_at"`
	Payload     domain.Event `json:"payload"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub keeps one live connection per user. A second connection for the same
// user replaces the first.
type Hub struct {
	connections map[int64]*client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*client),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[userID]; exists && old != nil {
		_ = old.conn.Close()
	}

	h.connections[userID] = &client{conn: conn}
}

// Unregister drops userID only while conn is still the registered connection.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if c, exists := h.connections[userID]; exists && c.conn == conn {
		_ = c.conn.Close()
		delete(h.connections, userID)
	}
}

func (h *Hub) SendToUser(userID int64, message any) bool {
	h.mutex.RLock()
	c, exists := h.connections[userID]
	h.mutex.RUnlock()

	if !exists || c == nil {
		return false
	}

	if err := c.write(message); err != nil {
		h.Unregister(userID, c.conn)
		return false
	}

	return true
}

// Notify pushes ev to every distinct recipient that is online. Zero IDs are
// skipped.
func (h *Hub) Notify(ev domain.Event, recipients ...int64) {
	msg := Message{
		Type:        ev.EventName(),
		AggregateID: ev.AggregateID(),
		OccurredAt:  ev.OccurredAt(),
		Payload:     ev,
	}

	seen := make(map[int64]struct{}, len(recipients))
	for _, id := range recipients {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		h.SendToUser(id, msg)
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.connections {
		if c != nil {
			_ = c.conn.Close()
		}
		delete(h.connections, userID)
	}
}
