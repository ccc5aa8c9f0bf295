package domain

import "context"

// Store bundles the entity repositories behind a single handle. InTx runs fn
// against a store whose repositories are bound to one transaction; if fn
// returns an error the transaction is rolled back. Multi-step lending
// operations must go through InTx so no partial state is ever observable.
type Store interface {
	Users() UserRepository
	Books() BookRepository
	Loans() LoanRepository
	Notifications() NotificationRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
