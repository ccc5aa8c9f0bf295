// Package sqlite implements the entity store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"bookswap/internal/domain"
	"bookswap/internal/repository/sqlite/migrations"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so every
// repository works both standalone and inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps the SQLite handle and implements domain.Store.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// A single connection serializes writers, so read-check-then-write
	// sequences inside one transaction cannot interleave.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close closes the underlying database handle.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (db *DB) Books() domain.BookRepository {
	return &BookRepository{db: db.SqlDB}
}

func (db *DB) Loans() domain.LoanRepository {
	return &LoanRepository{db: db.SqlDB}
}

func (db *DB) Notifications() domain.NotificationRepository {
	return &NotificationRepository{db: db.SqlDB}
}

// InTx runs fn against a store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (db *DB) InTx(ctx context.Context, fn func(domain.Store) error) error {
	tx, err := db.SqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// txStore is a domain.Store whose repositories share one transaction.
type txStore struct {
	tx *sql.Tx
}

func (s *txStore) Users() domain.UserRepository {
	return &UserRepository{db: s.tx}
}

func (s *txStore) Books() domain.BookRepository {
	return &BookRepository{db: s.tx}
}

func (s *txStore) Loans() domain.LoanRepository {
	return &LoanRepository{db: s.tx}
}

func (s *txStore) Notifications() domain.NotificationRepository {
	return &NotificationRepository{db: s.tx}
}

// InTx on an already transactional store just runs fn in the same
// transaction.
func (s *txStore) InTx(_ context.Context, fn func(domain.Store) error) error {
	return fn(s)
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint
// violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
