package handler

import (
	"net/http"
	"strconv"

	"bookswap/internal/service"
)

// NotificationHandler handles the notification feed endpoints.
type NotificationHandler struct {
	lending *service.Lending
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(lending *service.Lending) *NotificationHandler {
	return &NotificationHandler{lending: lending}
}

// HandleList returns the authenticated user's notifications, newest first.
// GET /api/notifications
// Response: {"notifications": [...]}
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	notifications, err := h.lending.ListNotifications(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": toNotificationDTOs(notifications)})
}

// HandleMarkRead flags one of the user's notifications as read.
// POST /api/notifications/{id}/read
// Response: 204 No Content
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid notification id.")
		return
	}

	if err := h.lending.MarkNotificationRead(r.Context(), id, user.ID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
