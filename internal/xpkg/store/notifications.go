package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"blueberry/internal/xpkg/models"
)

const notificationColumns = `id, user_id, order_id, title, message, read, created_at`

type NotificationRepo struct {
	db Conn
}

func NewNotificationRepo(db Conn) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func scanNotification(row pgx.Row) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.OrderID, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
	return n, translate(err)
}

func (nr *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	if err := alive(nr.db); err != nil {
		return models.Notification{}, err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return scanNotification(nr.db.GetConn().QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, order_id, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+notificationColumns,
		n.ID, n.UserID, n.OrderID, n.Title, n.Message, n.Read, n.CreatedAt))
}

// ListByUser returns the user's notifications, newest first.
func (nr *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	if err := alive(nr.db); err != nil {
		return nil, err
	}
	rows, err := nr.db.GetConn().Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Notification, error) {
		return scanNotification(row)
	})
}

// MarkRead flags one of the user's notifications as read.
func (nr *NotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	if err := alive(nr.db); err != nil {
		return err
	}
	tag, err := nr.db.GetConn().Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (nr *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if err := alive(nr.db); err != nil {
		return 0, err
	}
	tag, err := nr.db.GetConn().Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
