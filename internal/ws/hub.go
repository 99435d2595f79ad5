package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
)

// client owns one socket. Frames are queued on send and written by
// writePump, so callers never wait on the network.
type client struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	go c.writePump()
	return c
}

// enqueue never blocks. A client whose queue is full is dropped.
func (c *client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.closeLocked()
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *client) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	// unblocks a pending write; the read loop then unregisters the connection
	c.conn.Close()
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			return
		}
	}
}

// Hub tracks open connections by id and groups them into rooms keyed by
// game code.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*client
	rooms map[string]map[string]bool
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*client),
		rooms: make(map[string]map[string]bool),
	}
}

func (h *Hub) AddConnection(connID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[connID] = newClient(conn)
	log.Printf("ws: client %s connected (total: %d)", connID, len(h.conns))
}

func (h *Hub) RemoveConnection(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return
	}
	delete(h.conns, connID)
	for code, members := range h.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
	c.close()
	log.Printf("ws: client %s disconnected", connID)
}

func (h *Hub) Join(code, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[code] == nil {
		h.rooms[code] = make(map[string]bool)
	}
	h.rooms[code][connID] = true
}

func (h *Hub) Leave(code, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[code]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
}

// CloseRoom forgets the room. Connections stay open.
func (h *Hub) CloseRoom(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, code)
}

func (h *Hub) RoomSize(code string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[code])
}

func (h *Hub) Broadcast(code string, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.rooms[code]))
	for connID := range h.rooms[code] {
		if c, ok := h.conns[connID]; ok {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(data) {
			log.Printf("ws: dropped slow client in room %s", code)
		}
	}
}

func (h *Hub) Send(connID string, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if !c.enqueue(data) {
		log.Printf("ws: dropped slow client %s", connID)
	}
}
