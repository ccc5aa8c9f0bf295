package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookswap/internal/domain"
)

// LoanRepository implements domain.LoanRepository using SQLite.
type LoanRepository struct {
	db dbtx
}

func (r *LoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loans (id, isbn, user_id, borrowed_at, due_at, returned_at, status)
		 VALUES (?, ?, ?, ?, ?, NULL, ?)`,
		loan.ID, loan.ISBN, loan.UserID, loan.BorrowedAt, loan.DueAt, loan.Status,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert loan: %w", err)
	}
	return nil
}

func (r *LoanRepository) GetActive(ctx context.Context, isbn, userID string) (*domain.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, isbn, user_id, borrowed_at, due_at, returned_at, status
		 FROM loans WHERE isbn = ? AND user_id = ? AND returned_at IS NULL`,
		isbn, userID)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query active loan: %w", err)
	}
	return loan, nil
}

func (r *LoanRepository) ListByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, isbn, user_id, borrowed_at, due_at, returned_at, status
		 FROM loans WHERE user_id = ? ORDER BY borrowed_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list loans by user: %w", err)
	}
	defer rows.Close()
	return scanLoans(rows)
}

func (r *LoanRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, isbn, user_id, borrowed_at, due_at, returned_at, status
		 FROM loans WHERE returned_at IS NULL AND due_at < ? ORDER BY due_at`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("list overdue loans: %w", err)
	}
	defer rows.Close()
	return scanLoans(rows)
}

func (r *LoanRepository) MarkReturned(ctx context.Context, id string, returnedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE loans SET returned_at = ?, status = ? WHERE id = ? AND returned_at IS NULL`,
		returnedAt.UTC(), domain.LoanStatusReturned, id)
	if err != nil {
		return fmt.Errorf("mark loan returned: %w", err)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	loan := &domain.Loan{}
	var returned sql.NullTime
	if err := row.Scan(&loan.ID, &loan.ISBN, &loan.UserID, &loan.BorrowedAt, &loan.DueAt, &returned, &loan.Status); err != nil {
		return nil, err
	}
	if returned.Valid {
		t := returned.Time
		loan.ReturnedAt = &t
	}
	return loan, nil
}

func scanLoans(rows *sql.Rows) ([]domain.Loan, error) {
	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, *loan)
	}
	return loans, rows.Err()
}
