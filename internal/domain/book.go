package domain

import (
	"context"
	"time"
)

// Book is a donated book identified by its ISBN. Availability is toggled by
// borrow and return; DonorID is empty for books without a donor on record.
type Book struct {
	ISBN      string
	Title     string
	Author    string
	Year      int
	Available bool
	DonorID   string
	DonatedAt time.Time
}

// BookRepository defines persistence operations for books.
type BookRepository interface {
	Create(ctx context.Context, book *Book) error
	GetByISBN(ctx context.Context, isbn string) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	ListAvailable(ctx context.Context) ([]Book, error)
	SetAvailability(ctx context.Context, isbn string, available bool) error
}
