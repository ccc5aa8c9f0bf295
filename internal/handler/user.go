package handler

import (
	"net/http"

	"bookswap/internal/service"
)

// UserHandler exposes the member directory.
type UserHandler struct {
	lending *service.Lending
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(lending *service.Lending) *UserHandler {
	return &UserHandler{lending: lending}
}

// HandleList returns all registered users.
// GET /api/users
// Response: {"users": [...]}
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.lending.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}
