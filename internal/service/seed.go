package service

import (
	"context"
	"fmt"

	"bookswap/internal/domain"
)

// SeedSampleData populates an empty database with a few users and donated
// books for local development. It is idempotent: a database that already has
// users is left untouched. Every seeded account uses the given password.
func SeedSampleData(ctx context.Context, store domain.Store, creds domain.CredentialVerifier, password string) error {
	existing, err := store.Users().List(ctx)
	if err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := creds.Hash(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := []domain.User{
		{ID: "alice", DisplayName: "Alice Silva", Email: "alice@example.com", Balance: 500},
		{ID: "bob", DisplayName: "Bob Souza", Email: "bob@example.com", Balance: 200},
		{ID: "charlie", DisplayName: "Charlie Santos", Email: "charlie@example.com", Balance: 100},
		{ID: "eva", DisplayName: "Eva Costa", Email: "eva@example.com", Balance: 400},
	}

	books := []domain.Book{
		{ISBN: "978-8501044457", Title: "The Diary of a Young Girl", Author: "Anne Frank", Year: 1995, DonorID: "alice"},
		{ISBN: "978-8535911121", Title: "The Boy in the Striped Pyjamas", Author: "John Boyne", Year: 2007, DonorID: "bob"},
		{ISBN: "978-8598078175", Title: "The Book Thief", Author: "Markus Zusak", Year: 2013, DonorID: "alice"},
		{ISBN: "978-6558380542", Title: "The Midnight Library", Author: "Matt Haig", Year: 2021, DonorID: "charlie"},
		{ISBN: "978-6555522266", Title: "1984", Author: "George Orwell", Year: 2021, DonorID: "eva"},
		{ISBN: "978-8595084759", Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Year: 2019, DonorID: "eva"},
	}

	return store.InTx(ctx, func(tx domain.Store) error {
		for i := range users {
			users[i].PasswordHash = hash
			if err := tx.Users().Create(ctx, &users[i]); err != nil {
				return fmt.Errorf("seed user %s: %w", users[i].ID, err)
			}
		}
		for i := range books {
			books[i].Available = true
			if err := tx.Books().Create(ctx, &books[i]); err != nil {
				return fmt.Errorf("seed book %s: %w", books[i].ISBN, err)
			}
		}
		return nil
	})
}
