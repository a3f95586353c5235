package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// local tool; allow all
		return true
	},
}

// handleWSCal streams calibration events. The first message is always a
// "hello" snapshot; ?id= adds that session's status to it.
func (s *Server) handleWSCal(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &wsClient{conn: conn}

	hello := WSHello{Sessions: s.store.Len()}
	if id := r.URL.Query().Get("id"); id != "" {
		if sess, ok := s.store.Get(id); ok {
			st := s.status(sess)
			hello.Session = &st
		}
	}
	// registered only after the snapshot so it always arrives first
	if err := client.writeJSON(WSMessage{Type: "hello", Data: hello}); err != nil {
		log.Printf("ws: hello: %v", err)
		_ = conn.Close()
		return
	}
	s.wsCal.add(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.wsCal.remove(client)
			return
		}
	}
}
