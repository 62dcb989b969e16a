package remote

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	clientQueue  = 64
	writeTimeout = 3 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to connected clients. Each client has its own
// queue drained by a writer goroutine; Broadcast never waits on the
// network. A client whose queue overflows or whose write fails is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Add registers conn and queues initial ahead of any later broadcast.
func (h *Hub) Add(conn *websocket.Conn, initial [][]byte) {
	c := &client{conn: conn, send: make(chan []byte, clientQueue+len(initial))}
	for _, msg := range initial {
		c.send <- msg
	}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	go h.writeLoop(c)
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	h.dropLocked(conn)
	h.mu.Unlock()
}

func (h *Hub) dropLocked(conn *websocket.Conn) bool {
	c, ok := h.clients[conn]
	if !ok {
		return false
	}
	delete(h.clients, conn)
	close(c.send)
	return true
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, c := range h.clients {
		select {
		case c.send <- message:
		default:
			h.dropLocked(conn)
			go conn.Close(websocket.StatusPolicyViolation, "client too slow")
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			h.Remove(c.conn)
			_ = c.conn.Close(websocket.StatusInternalError, "write failed")
			return
		}
	}
}
