package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookswap/internal/domain"
)

// BookRepository implements domain.BookRepository using SQLite.
type BookRepository struct {
	db dbtx
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) error {
	now := time.Now().UTC()
	donor := sql.NullString{String: book.DonorID, Valid: book.DonorID != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (isbn, title, author, year, available, donor_id, donated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		book.ISBN, book.Title, book.Author, book.Year, book.Available, donor, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert book: %w", err)
	}

	book.DonatedAt = now
	return nil
}

func (r *BookRepository) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	book := &domain.Book{}
	var donor sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT isbn, title, author, year, available, donor_id, donated_at
		 FROM books WHERE isbn = ?`, isbn,
	).Scan(&book.ISBN, &book.Title, &book.Author, &book.Year, &book.Available, &donor, &book.DonatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query book by isbn: %w", err)
	}
	book.DonorID = donor.String
	return book, nil
}

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT isbn, title, author, year, available, donor_id, donated_at
		 FROM books ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *BookRepository) ListAvailable(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT isbn, title, author, year, available, donor_id, donated_at
		 FROM books WHERE available = TRUE ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list available books: %w", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *BookRepository) SetAvailability(ctx context.Context, isbn string, available bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE books SET available = ? WHERE isbn = ?`, available, isbn)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBooks(rows *sql.Rows) ([]domain.Book, error) {
	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		var donor sql.NullString
		if err := rows.Scan(&b.ISBN, &b.Title, &b.Author, &b.Year, &b.Available, &donor, &b.DonatedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		b.DonorID = donor.String
		books = append(books, b)
	}
	return books, rows.Err()
}
