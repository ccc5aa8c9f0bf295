package handler

import (
	"net/http"

	"bookswap/internal/hub"
)

// WSHandler upgrades authenticated clients onto the notification hub.
type WSHandler struct {
	hub *hub.Hub
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(h *hub.Hub) *WSHandler {
	return &WSHandler{hub: h}
}

// HandleConnect upgrades the request to a WebSocket and registers it for the
// authenticated user.
// GET /api/ws
func (h *WSHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	h.hub.ServeWS(w, r, user.ID)
}
