package domain

import (
	"context"
	"time"
)

// Loan statuses.
const (
	LoanStatusActive   = "active"
	LoanStatusReturned = "returned"
)

// Loan records one borrow of a book. A loan is active while ReturnedAt is nil;
// at most one active loan may exist per ISBN at any time.
type Loan struct {
	ID         string
	ISBN       string
	UserID     string
	BorrowedAt time.Time
	DueAt      time.Time
	ReturnedAt *time.Time
	Status     string
}

// Overdue reports whether the loan is active and past its due date at the
// given instant.
func (l *Loan) Overdue(now time.Time) bool {
	return l.ReturnedAt == nil && now.After(l.DueAt)
}

// LoanRepository defines persistence operations for loans.
type LoanRepository interface {
	Create(ctx context.Context, loan *Loan) error
	// GetActive returns the active loan for the (isbn, userID) pair, or
	// ErrNotFound if none exists.
	GetActive(ctx context.Context, isbn, userID string) (*Loan, error)
	ListByUser(ctx context.Context, userID string) ([]Loan, error)
	ListOverdue(ctx context.Context, now time.Time) ([]Loan, error)
	MarkReturned(ctx context.Context, id string, returnedAt time.Time) error
}
