package handler

import (
	"net/http"

	"bookswap/internal/domain"
	"bookswap/internal/hub"
	"bookswap/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, lending *service.Lending, sessions *service.Sessions, users domain.UserRepository, notificationHub *hub.Hub, cookieSecure bool) {
	authHandler := NewAuthHandler(lending, sessions, cookieSecure)
	bookHandler := NewBookHandler(lending)
	loanHandler := NewLoanHandler(lending)
	notificationHandler := NewNotificationHandler(lending)
	userHandler := NewUserHandler(lending)
	wsHandler := NewWSHandler(notificationHub)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(sessions, users, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", requireAuth(authHandler.HandleMe))

	mux.HandleFunc("GET /api/books", bookHandler.HandleList)
	mux.Handle("POST /api/books/donate", requireAuth(bookHandler.HandleDonate))

	mux.Handle("POST /api/loans/borrow", requireAuth(loanHandler.HandleBorrow))
	mux.Handle("POST /api/loans/return", requireAuth(loanHandler.HandleReturn))
	mux.Handle("GET /api/loans", requireAuth(loanHandler.HandleListLoans))
	mux.Handle("GET /api/balance", requireAuth(loanHandler.HandleBalance))

	mux.Handle("GET /api/notifications", requireAuth(notificationHandler.HandleList))
	mux.Handle("POST /api/notifications/{id}/read", requireAuth(notificationHandler.HandleMarkRead))

	mux.Handle("GET /api/users", requireAuth(userHandler.HandleList))
	mux.Handle("GET /api/ws", requireAuth(wsHandler.HandleConnect))
}
