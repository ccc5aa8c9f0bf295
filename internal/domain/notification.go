package domain

import (
	"context"
	"time"
)

// Notification is a persisted, human-readable message produced from an event.
type Notification struct {
	ID        int64
	UserID    string
	EventKind string
	Message   string
	CreatedAt time.Time
	Read      bool
}

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ListByUser returns the user's notifications newest first.
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) error
	// DeleteReadBefore removes read notifications created before the cutoff
	// and returns the number deleted.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
