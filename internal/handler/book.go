package handler

import (
	"fmt"
	"net/http"

	"bookswap/internal/domain"
	"bookswap/internal/service"
)

// BookHandler handles the book catalog endpoints.
type BookHandler struct {
	lending *service.Lending
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(lending *service.Lending) *BookHandler {
	return &BookHandler{lending: lending}
}

// HandleList returns the books available to borrow. With ?all=true the full
// catalog is returned, including books currently on loan.
// GET /api/books
// Response: {"books": [...]}
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list := h.lending.ListAvailableBooks
	if r.URL.Query().Get("all") == "true" {
		list = h.lending.ListBooks
	}

	books, err := list(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"books": toBookDTOs(books)})
}

// HandleDonate records a book donation by the authenticated user and credits
// the donation reward.
// POST /api/books/donate
// Request:  {"isbn":"...","title":"...","author":"...","year":2021}
// Response: {"book": {...}, "balance": 200}
func (h *BookHandler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		ISBN   string `json:"isbn"`
		Title  string `json:"title"`
		Author string `json:"author"`
		Year   int    `json:"year"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.ISBN == "" || req.Title == "" || req.Author == "" {
		writeDomainError(w, fmt.Errorf("%w: isbn, title, and author are required", domain.ErrInvalidInput))
		return
	}

	book := &domain.Book{
		ISBN:   req.ISBN,
		Title:  req.Title,
		Author: req.Author,
		Year:   req.Year,
	}
	balance, err := h.lending.DonateBook(r.Context(), book, user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"book":    toBookDTO(*book),
		"balance": balance,
	})
}
