package notification

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// connection wraps one user's websocket. All writes go through the send
// channel; writePump is the only goroutine touching the conn for writes.
type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks one realtime connection per user and pushes notification events
// to whoever is online. Delivery is best-effort.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*connection
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*connection),
	}
}

// Register starts a writer pump for the connection. A previous connection for
// the same user is closed and replaced.
func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	c := &connection{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if old, exists := h.connections[userID]; exists {
		close(old.send)
	}
	h.connections[userID] = c
	h.mu.Unlock()

	go h.writePump(c)
}

// Unregister drops the user's connection, but only if it still is the given
// one: a reconnect may already have replaced it.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, exists := h.connections[userID]; exists && c.conn == conn {
		delete(h.connections, userID)
		close(c.send)
	}
}

// SendToUser enqueues the message for the user's writer pump. Returns false
// when the user is offline or too slow to keep up; the message is dropped.
func (h *Hub) SendToUser(userID int64, message interface{}) bool {
	data, err := json.Marshal(message)
	if err != nil {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, exists := h.connections[userID]
	if !exists {
		return false
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, c := range h.connections {
		close(c.send)
		delete(h.connections, userID)
	}
}

// writePump is the single writer for its connection. It drains the send
// channel and keeps the peer alive with pings until the channel closes or a
// write fails.
func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
