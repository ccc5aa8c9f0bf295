// Package worker runs the periodic maintenance loop: overdue-loan reminders
// and pruning of old read notifications.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bookswap/internal/domain"
	"bookswap/internal/event"
)

// Reminder periodically publishes a loan_overdue event for every active loan
// past its due date and prunes read notifications older than the retention
// window.
type Reminder struct {
	store         domain.Store
	events        *event.Dispatcher
	interval      time.Duration
	retention     time.Duration
	lateFeePerDay int
}

// NewReminder creates the maintenance worker.
func NewReminder(store domain.Store, events *event.Dispatcher, interval, retention time.Duration, lateFeePerDay int) *Reminder {
	return &Reminder{
		store:         store,
		events:        events,
		interval:      interval,
		retention:     retention,
		lateFeePerDay: lateFeePerDay,
	}
}

// Start runs the loop until ctx is cancelled. The first check runs
// immediately.
func (r *Reminder) Start(ctx context.Context) {
	go func() {
		r.check(ctx)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.check(ctx)
			}
		}
	}()
}

func (r *Reminder) check(ctx context.Context) {
	now := time.Now().UTC()

	loans, err := r.store.Loans().ListOverdue(ctx, now)
	if err != nil {
		slog.Error("reminder: list overdue loans", "error", err)
		return
	}

	for _, loan := range loans {
		title := loan.ISBN
		book, err := r.store.Books().GetByISBN(ctx, loan.ISBN)
		if err == nil {
			title = book.Title
		} else if !errors.Is(err, domain.ErrNotFound) {
			slog.Error("reminder: get book", "isbn", loan.ISBN, "error", err)
		}

		r.events.Publish(ctx, event.Event{
			Kind:      event.LoanOverdue,
			UserID:    loan.UserID,
			ISBN:      loan.ISBN,
			BookTitle: title,
			Coins:     r.lateFeePerDay,
			DueAt:     loan.DueAt,
		})
	}
	if len(loans) > 0 {
		slog.Info("reminder: overdue loans announced", "count", len(loans))
	}

	pruned, err := r.store.Notifications().DeleteReadBefore(ctx, now.Add(-r.retention))
	if err != nil {
		slog.Error("reminder: prune notifications", "error", err)
		return
	}
	if pruned > 0 {
		slog.Info("reminder: old notifications pruned", "count", pruned)
	}
}
