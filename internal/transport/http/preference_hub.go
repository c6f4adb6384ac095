package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// PreferenceHub relays preference-change notifications between a user's open
// windows. A window that saves preferences sends {"type":"preference-updated"}
// and every other connected window receives it, so their sync loops refetch.
type PreferenceHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan []byte
}

func NewPreferenceHub() *PreferenceHub {
	return &PreferenceHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]chan []byte),
	}
}

type hubMessage struct {
	Type string `json:"type"`
}

// ServeWS upgrades the request and relays recognized messages to the other
// connected windows until the client disconnects.
func (h *PreferenceHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan []byte, 16)
	h.register(conn, send)
	defer h.unregister(conn)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg hubMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Type == "preference-updated" {
			h.relay(conn, raw)
		}
	}

	h.unregister(conn)
	<-writerDone
}

func (h *PreferenceHub) register(conn *websocket.Conn, send chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = send
}

func (h *PreferenceHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if send, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(send)
	}
}

// relay forwards a message to every window except the sender, dropping it for
// clients whose send buffer is full.
func (h *PreferenceHub) relay(from *websocket.Conn, raw []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.conns {
		if conn == from {
			continue
		}
		select {
		case send <- raw:
		default:
		}
	}
}
