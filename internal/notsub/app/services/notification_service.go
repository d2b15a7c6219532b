package services

import (
	"context"
	"encoding/json"
	"fmt"

	"blueberry/internal/notsub/app/core"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/metrics"
	"blueberry/internal/xpkg/models"
)

type NotificationService struct {
	repo    core.INotificationRepo
	metrics *metrics.Metrics
	mylog   logger.Logger
}

func NewNotificationService(repo core.INotificationRepo, m *metrics.Metrics, mylog logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, metrics: m, mylog: mylog}
}

// Dispatch decodes body according to its routing key and handles it.
// Errors wrapping core.ErrMalformed mean the message is unusable.
func (ns *NotificationService) Dispatch(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case models.RoutingOrderStatus, models.RoutingOrderNiveau:
		var msg models.OrderUpdateMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("%w: %v", core.ErrMalformed, err)
		}
		return ns.OrderUpdated(ctx, msg)
	case models.RoutingPasswordReset:
		var msg models.PasswordResetMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("%w: %v", core.ErrMalformed, err)
		}
		return ns.PasswordReset(ctx, msg)
	}
	return fmt.Errorf("%w: %w %q", core.ErrMalformed, core.ErrUnrouted, routingKey)
}

// OrderUpdated stores the customer notification for a status or niveau
// change.
func (ns *NotificationService) OrderUpdated(ctx context.Context, msg models.OrderUpdateMessage) error {
	mylog := ns.mylog.Action("order_updated").With("order_id", msg.OrderID, "field", msg.Field, "new_value", msg.NewValue)

	if msg.UserID == "" || msg.OrderID == "" {
		return fmt.Errorf("%w: order update without user or order id", core.ErrMalformed)
	}
	n, ok := models.NotificationFor(msg)
	if !ok {
		return fmt.Errorf("%w: unknown field %q", core.ErrMalformed, msg.Field)
	}

	created, err := ns.repo.Create(ctx, n)
	if err != nil {
		mylog.Error("Failed to store notification", err)
		return fmt.Errorf("cannot store notification: %w", err)
	}
	ns.metrics.NotificationsCreated.Inc()
	mylog.Info("Notification stored", "notification_id", created.ID, "user_id", created.UserID)
	return nil
}

// PasswordReset hands the reset link over for delivery. No mail transport
// is configured, so the link goes to the log.
func (ns *NotificationService) PasswordReset(_ context.Context, msg models.PasswordResetMessage) error {
	if msg.Email == "" || msg.Link == "" {
		return fmt.Errorf("%w: password reset without email or link", core.ErrMalformed)
	}
	mylog := ns.mylog.Action("password_reset").With("email", msg.Email, "expires_at", msg.ExpiresAt)
	mylog.Info("Password reset link ready for delivery")
	// the link carries a live single-use token
	mylog.Debug("Password reset link", "link", msg.Link)
	return nil
}
