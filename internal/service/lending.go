package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookswap/internal/config"
	"bookswap/internal/domain"
	"bookswap/internal/event"
)

// Lending owns the business rules of the exchange: coin transfers, the loan
// lifecycle, and overdue penalties. It is the sole mutator of user balances
// and book availability. Every multi-step operation runs inside a single
// store transaction; events are published only after the transaction commits,
// so an observer failure can never roll back or precede a committed mutation.
type Lending struct {
	store   domain.Store
	creds   domain.CredentialVerifier
	events  *event.Dispatcher
	economy config.Economy
}

// NewLending creates the lending service with the given collaborators and
// economy rules.
func NewLending(store domain.Store, creds domain.CredentialVerifier, events *event.Dispatcher, economy config.Economy) *Lending {
	return &Lending{
		store:   store,
		creds:   creds,
		events:  events,
		economy: economy,
	}
}

// RegisterUser creates a new user with the starting coin balance. Fails with
// domain.ErrConflict if the id or email is already taken. Argument validation
// is the caller's job; the service trusts its inputs.
func (s *Lending) RegisterUser(ctx context.Context, id, displayName, email, password string) (*domain.User, error) {
	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}

	user := &domain.User{
		ID:           id,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: hash,
		Balance:      s.economy.StartingBalance,
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.events.Publish(ctx, event.Event{
		Kind:        event.UserAdded,
		UserID:      user.ID,
		DisplayName: user.DisplayName,
	})
	return user, nil
}

// AuthenticateUser checks the user's credential. Fails with
// domain.ErrUnauthenticated when the user is unknown or the credential does
// not match.
func (s *Lending) AuthenticateUser(ctx context.Context, id, password string) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.creds.Verify(password, user.PasswordHash) {
		return nil, domain.ErrUnauthenticated
	}

	s.events.Publish(ctx, event.Event{
		Kind:   event.UserAuthenticated,
		UserID: user.ID,
	})
	return user, nil
}

// DonateBook records a donated book and credits the donor the donation
// reward. Returns the donor's new balance.
func (s *Lending) DonateBook(ctx context.Context, book *domain.Book, donorID string) (int, error) {
	var (
		newBalance int
		published  []event.Event
	)

	err := s.store.InTx(ctx, func(tx domain.Store) error {
		donor, err := tx.Users().GetByID(ctx, donorID)
		if err != nil {
			return err
		}

		book.DonorID = donorID
		book.Available = true
		if err := tx.Books().Create(ctx, book); err != nil {
			return err
		}

		newBalance = donor.Balance + s.economy.DonationReward
		if err := tx.Users().UpdateBalance(ctx, donorID, newBalance); err != nil {
			return err
		}

		published = append(published, event.Event{
			Kind:       event.BookDonated,
			UserID:     donorID,
			ISBN:       book.ISBN,
			BookTitle:  book.Title,
			Coins:      s.economy.DonationReward,
			NewBalance: newBalance,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.publish(ctx, published)
	return newBalance, nil
}

// ListAvailableBooks returns all books currently available to borrow.
func (s *Lending) ListAvailableBooks(ctx context.Context) ([]domain.Book, error) {
	return s.store.Books().ListAvailable(ctx)
}

// ListBooks returns the full catalog, including books currently on loan.
func (s *Lending) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.store.Books().List(ctx)
}

// ListUsers returns the member directory.
func (s *Lending) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.Users().List(ctx)
}

// Balance returns the user's coin balance.
func (s *Lending) Balance(ctx context.Context, userID string) (int, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.events.Publish(ctx, event.Event{
		Kind:       event.BalanceQueried,
		UserID:     userID,
		NewBalance: user.Balance,
	})
	return user.Balance, nil
}

// BorrowBook moves a book from available to on loan: it creates the loan,
// flips availability, debits the borrower the borrow cost, and credits the
// donor (if any, and distinct from the borrower) the donor reward.
func (s *Lending) BorrowBook(ctx context.Context, userID, isbn string) (*domain.Loan, error) {
	var (
		loan      *domain.Loan
		published []event.Event
	)

	err := s.store.InTx(ctx, func(tx domain.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}
		book, err := tx.Books().GetByISBN(ctx, isbn)
		if err != nil {
			return err
		}

		if !book.Available {
			return domain.ErrUnavailable
		}
		if user.Balance < s.economy.BorrowCost {
			return domain.ErrInsufficientBalance
		}
		if _, err := tx.Loans().GetActive(ctx, isbn, userID); err == nil {
			return domain.ErrAlreadyBorrowed
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		now := time.Now().UTC()
		loan = &domain.Loan{
			ID:         uuid.NewString(),
			ISBN:       isbn,
			UserID:     userID,
			BorrowedAt: now,
			DueAt:      now.Add(s.economy.LoanDuration),
			Status:     domain.LoanStatusActive,
		}
		if err := tx.Loans().Create(ctx, loan); err != nil {
			return err
		}

		if err := tx.Books().SetAvailability(ctx, isbn, false); err != nil {
			return err
		}

		borrowerBalance := user.Balance - s.economy.BorrowCost
		if err := tx.Users().UpdateBalance(ctx, userID, borrowerBalance); err != nil {
			return err
		}

		if book.DonorID != "" && book.DonorID != userID {
			donor, err := tx.Users().GetByID(ctx, book.DonorID)
			if err == nil {
				if err := tx.Users().UpdateBalance(ctx, donor.ID, donor.Balance+s.economy.DonorReward); err != nil {
					return err
				}
				published = append(published, event.Event{
					Kind:       event.BookBorrowedDonorCredit,
					UserID:     donor.ID,
					ISBN:       isbn,
					BookTitle:  book.Title,
					Coins:      s.economy.DonorReward,
					NewBalance: donor.Balance + s.economy.DonorReward,
					BorrowerID: userID,
				})
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		published = append(published, event.Event{
			Kind:       event.BookBorrowed,
			UserID:     userID,
			ISBN:       isbn,
			BookTitle:  book.Title,
			Coins:      s.economy.BorrowCost,
			NewBalance: borrowerBalance,
			DueAt:      loan.DueAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, published)
	return loan, nil
}

// ReturnReceipt reports the outcome of a return.
type ReturnReceipt struct {
	Message  string
	Balance  int
	DaysLate int
	// Penalty is the number of coins actually removed, which is less than
	// daysLate * fee when the balance could not cover it.
	Penalty int
}

// ReturnBook closes the active loan for (isbn, userID), makes the book
// available again, and applies any late penalty. A debit is clamped so the
// balance never goes negative.
func (s *Lending) ReturnBook(ctx context.Context, userID, isbn string) (*ReturnReceipt, error) {
	var (
		receipt   *ReturnReceipt
		published []event.Event
	)

	err := s.store.InTx(ctx, func(tx domain.Store) error {
		loan, err := tx.Loans().GetActive(ctx, isbn, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: loan not found or already returned", domain.ErrNotFound)
			}
			return err
		}
		book, err := tx.Books().GetByISBN(ctx, isbn)
		if err != nil {
			return err
		}
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.Loans().MarkReturned(ctx, loan.ID, now); err != nil {
			return err
		}
		if err := tx.Books().SetAvailability(ctx, isbn, true); err != nil {
			return err
		}

		daysLate := int(now.Sub(loan.DueAt) / (24 * time.Hour))
		if daysLate <= 0 {
			receipt = &ReturnReceipt{
				Message: "Book returned successfully!",
				Balance: user.Balance,
			}
			published = append(published, event.Event{
				Kind:      event.BookReturned,
				UserID:    userID,
				ISBN:      isbn,
				BookTitle: book.Title,
			})
			return nil
		}

		penalty := daysLate * s.economy.LateFeePerDay
		removed := penalty
		if removed > user.Balance {
			removed = user.Balance
		}
		newBalance := user.Balance - removed
		if err := tx.Users().UpdateBalance(ctx, userID, newBalance); err != nil {
			return err
		}

		e := event.Event{
			UserID:     userID,
			ISBN:       isbn,
			BookTitle:  book.Title,
			Coins:      removed,
			NewBalance: newBalance,
			DaysLate:   daysLate,
		}
		if removed == penalty {
			e.Kind = event.PenaltyApplied
			receipt = &ReturnReceipt{
				Message:  fmt.Sprintf("Book returned. A penalty of %d coins was applied for %d days late. Current balance: %d coins.", penalty, daysLate, newBalance),
				Balance:  newBalance,
				DaysLate: daysLate,
				Penalty:  removed,
			}
		} else {
			e.Kind = event.PenaltyPartiallyApplied
			receipt = &ReturnReceipt{
				Message:  fmt.Sprintf("Book returned. A penalty of %d coins was due for %d days late; your balance only covered %d and is now zero.", penalty, daysLate, removed),
				Balance:  newBalance,
				DaysLate: daysLate,
				Penalty:  removed,
			}
		}
		published = append(published, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, published)
	return receipt, nil
}

// ListLoans returns the user's loan history, most recent first.
func (s *Lending) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	return s.store.Loans().ListByUser(ctx, userID)
}

// ListNotifications returns the user's notifications newest first.
func (s *Lending) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.store.Notifications().ListByUser(ctx, userID)
}

// MarkNotificationRead flags one of the user's notifications as read.
func (s *Lending) MarkNotificationRead(ctx context.Context, id int64, userID string) error {
	return s.store.Notifications().MarkRead(ctx, id, userID)
}

func (s *Lending) publish(ctx context.Context, events []event.Event) {
	for _, e := range events {
		s.events.Publish(ctx, e)
	}
}
