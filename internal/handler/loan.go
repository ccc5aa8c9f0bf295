package handler

import (
	"fmt"
	"net/http"

	"bookswap/internal/domain"
	"bookswap/internal/service"
)

// LoanHandler handles borrow, return, and balance endpoints.
type LoanHandler struct {
	lending *service.Lending
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(lending *service.Lending) *LoanHandler {
	return &LoanHandler{lending: lending}
}

// HandleBorrow borrows a book for the authenticated user.
// POST /api/loans/borrow
// Request:  {"isbn":"..."}
// Response: {"loan": {...}}
func (h *LoanHandler) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		ISBN string `json:"isbn"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.ISBN == "" {
		writeDomainError(w, fmt.Errorf("%w: isbn is required", domain.ErrInvalidInput))
		return
	}

	cmd := service.NewBorrowCommand(h.lending, user.ID, req.ISBN)
	ok, err := cmd.Execute(r.Context())
	if !ok {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"loan": toLoanDTO(cmd.Loan)})
}

// HandleReturn returns a borrowed book.
// POST /api/loans/return
// Request:  {"isbn":"..."}
// Response: {"message":"...","balance":50,"daysLate":0,"penalty":0}
func (h *LoanHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req struct {
		ISBN string `json:"isbn"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.ISBN == "" {
		writeDomainError(w, fmt.Errorf("%w: isbn is required", domain.ErrInvalidInput))
		return
	}

	receipt, err := h.lending.ReturnBook(r.Context(), user.ID, req.ISBN)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  receipt.Message,
		"balance":  receipt.Balance,
		"daysLate": receipt.DaysLate,
		"penalty":  receipt.Penalty,
	})
}

// HandleListLoans returns the authenticated user's loan history, most recent
// first.
// GET /api/loans
// Response: {"loans": [...]}
func (h *LoanHandler) HandleListLoans(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	loans, err := h.lending.ListLoans(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]LoanDTO, len(loans))
	for i := range loans {
		dtos[i] = toLoanDTO(&loans[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"loans": dtos})
}

// HandleBalance returns the authenticated user's coin balance.
// GET /api/balance
// Response: {"userId":"...","balance":100}
func (h *LoanHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	balance, err := h.lending.Balance(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":  user.ID,
		"balance": balance,
	})
}
