package sqlite

import (
	"context"
	"fmt"
	"time"

	"bookswap/internal/domain"
)

// NotificationRepository implements domain.NotificationRepository using SQLite.
type NotificationRepository struct {
	db dbtx
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, event_kind, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?)`,
		n.UserID, n.EventKind, n.Message, now, n.Read,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	n.ID = id
	n.CreatedAt = now
	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, event_kind, message, created_at, is_read
		 FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.EventKind, &n.Message, &n.CreatedAt, &n.Read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
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

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE is_read = TRUE AND created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}
	return result.RowsAffected()
}
