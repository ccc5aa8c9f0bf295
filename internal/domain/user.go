package domain

import (
	"context"
	"time"
)

// User represents a registered member of the exchange. The coin balance is
// mutated only by the lending service.
type User struct {
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	Balance      int
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateBalance(ctx context.Context, id string, balance int) error
}

// CredentialVerifier hashes and checks password credentials. The lending
// service never interprets the stored hash itself.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}
