package handler

import (
	"fmt"
	"net/http"

	"bookswap/internal/domain"
	"bookswap/internal/service"
)

// AuthHandler handles registration and session endpoints.
type AuthHandler struct {
	lending      *service.Lending
	sessions     *service.Sessions
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(lending *service.Lending, sessions *service.Sessions, cookieSecure bool) *AuthHandler {
	return &AuthHandler{lending: lending, sessions: sessions, cookieSecure: cookieSecure}
}

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"id":"...","displayName":"...","email":"...","password":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
		Password    string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.ID == "" || req.DisplayName == "" || req.Email == "" || req.Password == "" {
		writeDomainError(w, fmt.Errorf("%w: id, display name, email, and password are required", domain.ErrInvalidInput))
		return
	}
	if len(req.Password) < 8 {
		writeDomainError(w, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput))
		return
	}

	user, err := h.lending.RegisterUser(r.Context(), req.ID, req.DisplayName, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": toUserDTO(user)})
}

// HandleLogin processes a JSON login request and sets the auth cookie.
// POST /api/auth/login
// Request:  {"id":"...","password":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       string `json:"id"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.lending.AuthenticateUser(r.Context(), req.ID, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.sessions.Token(user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL().Seconds()),
	})

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleLogout clears the auth cookie.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}
