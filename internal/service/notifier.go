package service

import (
	"context"
	"fmt"
	"log/slog"

	"bookswap/internal/domain"
	"bookswap/internal/event"
)

// Notifier is the observer that turns events into persisted notifications.
// It is the only writer of Notification entities. Events without a message
// template (authentication, balance queries) are ignored.
type Notifier struct {
	notifications domain.NotificationRepository
}

// NewNotifier creates a Notifier writing through the given repository.
func NewNotifier(notifications domain.NotificationRepository) *Notifier {
	return &Notifier{notifications: notifications}
}

func (n *Notifier) Handle(ctx context.Context, e event.Event) error {
	slog.Debug("event observed", "kind", e.Kind, "user", e.UserID)

	message, ok := RenderMessage(e)
	if !ok || e.UserID == "" {
		return nil
	}

	notification := &domain.Notification{
		UserID:    e.UserID,
		EventKind: string(e.Kind),
		Message:   message,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	return nil
}

// RenderMessage maps a recognized event kind to its human-readable message.
// The second return value is false for kinds that produce no notification.
func RenderMessage(e event.Event) (string, bool) {
	const dateLayout = "02 Jan 2006"

	switch e.Kind {
	case event.UserAdded:
		return fmt.Sprintf("Welcome, %s! Your account is ready. Donate a book and earn coins!", e.DisplayName), true
	case event.BookDonated:
		return fmt.Sprintf("Thanks for donating '%s'! You earned %d coins.", e.BookTitle, e.Coins), true
	case event.BookBorrowed:
		return fmt.Sprintf("You borrowed '%s'! %d coins were deducted; your new balance is %d coins. Due back by %s.",
			e.BookTitle, e.Coins, e.NewBalance, e.DueAt.Format(dateLayout)), true
	case event.BookBorrowedDonorCredit:
		return fmt.Sprintf("Your book '%s' was borrowed by %s! You earned %d coins.", e.BookTitle, e.BorrowerID, e.Coins), true
	case event.PenaltyApplied:
		return fmt.Sprintf("Late return penalty! You lost %d coins for returning '%s' %d days late.", e.Coins, e.BookTitle, e.DaysLate), true
	case event.PenaltyPartiallyApplied:
		return fmt.Sprintf("Late return penalty! You lost %d coins for returning '%s' %d days late. Your balance is now zero.", e.Coins, e.BookTitle, e.DaysLate), true
	case event.BookReturned:
		return fmt.Sprintf("You returned '%s'. Thanks!", e.BookTitle), true
	case event.LoanOverdue:
		return fmt.Sprintf("Reminder: '%s' was due back on %s. A late fee of %d coins per day applies when you return it.",
			e.BookTitle, e.DueAt.Format(dateLayout), e.Coins), true
	default:
		return "", false
	}
}
