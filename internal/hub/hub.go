// Package hub pushes rendered notifications to connected browsers over
// WebSocket. The hub is attached to the event dispatcher as a second
// observer, next to the persisting notifier.
package hub

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bookswap/internal/event"
	"bookswap/internal/service"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Message is the JSON frame sent to clients.
type Message struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Hub tracks one WebSocket connection per user id.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{clients: make(map[string]*websocket.Conn)}
}

// ServeWS upgrades the request and registers the connection for the user.
// A new connection replaces any previous one for the same user.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", "error", err)
		return
	}

	h.mu.Lock()
	if old, ok := h.clients[userID]; ok {
		old.Close()
	}
	h.clients[userID] = conn
	h.mu.Unlock()

	// Drain the connection so close frames are processed; clients never
	// send application data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(userID, conn)
				return
			}
		}
	}()
}

// Handle implements event.Observer by forwarding the rendered message to the
// recipient's connection, if any.
func (h *Hub) Handle(_ context.Context, e event.Event) error {
	message, ok := service.RenderMessage(e)
	if !ok || e.UserID == "" {
		return nil
	}

	h.mu.Lock()
	conn, ok := h.clients[e.UserID]
	h.mu.Unlock()
	if !ok {
		return nil
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(Message{Kind: string(e.Kind), Message: message}); err != nil {
		h.remove(e.UserID, conn)
		return err
	}
	return nil
}

func (h *Hub) remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	if current, ok := h.clients[userID]; ok && current == conn {
		delete(h.clients, userID)
	}
	h.mu.Unlock()
	conn.Close()
}
