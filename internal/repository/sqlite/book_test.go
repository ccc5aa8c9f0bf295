package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"bookswap/internal/domain"
)

func TestBookRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "donor", 100)
	createTestBook(t, db, "isbn-1", "donor")

	got, err := db.Books().GetByISBN(ctx, "isbn-1")
	if err != nil {
		t.Fatalf("GetByISBN: %v", err)
	}
	if got.DonorID != "donor" || !got.Available {
		t.Fatalf("unexpected book: %+v", got)
	}
}

func TestBookRepository_NoDonor(t *testing.T) {
	db := newTestDB(t)

	createTestBook(t, db, "orphan-isbn", "")

	got, err := db.Books().GetByISBN(context.Background(), "orphan-isbn")
	if err != nil {
		t.Fatalf("GetByISBN: %v", err)
	}
	if got.DonorID != "" {
		t.Fatalf("expected empty donor, got %q", got.DonorID)
	}
}

func TestBookRepository_DuplicateISBN(t *testing.T) {
	db := newTestDB(t)

	createTestBook(t, db, "isbn-1", "")

	err := db.Books().Create(context.Background(), &domain.Book{
		ISBN: "isbn-1", Title: "Other", Author: "Other", Year: 2021, Available: true,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestBookRepository_ListAvailable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	createTestBook(t, db, "avail-isbn", "")
	createTestBook(t, db, "loaned-isbn", "")
	if err := db.Books().SetAvailability(ctx, "loaned-isbn", false); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}

	books, err := db.Books().ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(books) != 1 || books[0].ISBN != "avail-isbn" {
		t.Fatalf("expected only avail-isbn, got %+v", books)
	}

	all, err := db.Books().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 books in full list, got %d", len(all))
	}
}

func TestBookRepository_SetAvailabilityUnknown(t *testing.T) {
	db := newTestDB(t)

	err := db.Books().SetAvailability(context.Background(), "missing", false)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
