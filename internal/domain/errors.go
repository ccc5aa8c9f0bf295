package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("already exists")
	ErrUnauthenticated     = errors.New("invalid credentials")
	ErrUnavailable         = errors.New("book not available")
	ErrAlreadyBorrowed     = errors.New("book already borrowed by this user")
	ErrInsufficientBalance = errors.New("insufficient coin balance")
	ErrInvalidInput        = errors.New("invalid input")
)
