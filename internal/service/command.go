package service

import (
	"context"

	"bookswap/internal/domain"
)

// BorrowCommand binds a single borrow's parameters and defers its execution.
type BorrowCommand struct {
	lending *Lending
	userID  string
	isbn    string

	// Loan holds the created loan after a successful Execute.
	Loan *domain.Loan
}

// NewBorrowCommand creates a command that will borrow the given book for the
// given user when executed.
func NewBorrowCommand(lending *Lending, userID, isbn string) *BorrowCommand {
	return &BorrowCommand{lending: lending, userID: userID, isbn: isbn}
}

// Execute performs the borrow. It reports success as a boolean alongside the
// failure cause, which carries one of the domain error kinds.
func (c *BorrowCommand) Execute(ctx context.Context) (bool, error) {
	loan, err := c.lending.BorrowBook(ctx, c.userID, c.isbn)
	if err != nil {
		return false, err
	}
	c.Loan = loan
	return true, nil
}
