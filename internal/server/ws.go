package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 2 * time.Second

// WSMessage is the envelope for every calibration event.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(msg WSMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.write(b)
}

func (c *wsClient) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// WSHub fans calibration events out to every connected client.
type WSHub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

func NewWSHub() *WSHub {
	return &WSHub{clients: make(map[*wsClient]struct{})}
}

func (h *WSHub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *WSHub) remove(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

// Len reports the number of connected clients.
func (h *WSHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to all clients and drops the ones that fail.
func (h *WSHub) Broadcast(msg WSMessage) {
	b, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: drop %s event: %v", msg.Type, err)
		return
	}
	h.mu.RLock()
	var dead []*wsClient
	for c := range h.clients {
		if err := c.write(b); err != nil {
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range dead {
		h.remove(c)
	}
}
