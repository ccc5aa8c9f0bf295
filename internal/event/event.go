// Package event provides the synchronous publish/subscribe mechanism the
// lending service uses to announce state changes.
package event

import "time"

// Kind identifies what happened. Observers that do not recognize a kind
// ignore it.
type Kind string

const (
	UserAdded               Kind = "user_added"
	UserAuthenticated       Kind = "user_authenticated"
	BookDonated             Kind = "book_donated"
	BalanceQueried          Kind = "balance_queried"
	BookBorrowed            Kind = "book_borrowed"
	BookBorrowedDonorCredit Kind = "book_borrowed_donor_credit"
	PenaltyApplied          Kind = "penalty_applied"
	PenaltyPartiallyApplied Kind = "penalty_partially_applied"
	BookReturned            Kind = "book_returned"
	LoanOverdue             Kind = "loan_overdue"
)

// Event is the payload published to observers. UserID is the recipient of any
// resulting notification; the remaining fields are filled per kind.
type Event struct {
	Kind        Kind
	UserID      string
	DisplayName string
	ISBN        string
	BookTitle   string
	// Coins is the amount credited or debited by the operation. For partial
	// penalties it is the amount actually removed, not the nominal fee.
	Coins      int
	NewBalance int
	DueAt      time.Time
	DaysLate   int
	// BorrowerID names the counterparty on donor-credit events.
	BorrowerID string
}
