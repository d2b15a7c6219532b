package services

import (
	"context"
	"errors"
	"fmt"

	"blueberry/internal/storefront/app/core"
	"blueberry/internal/storefront/domain/dto"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
	"blueberry/internal/xpkg/store"
)

type NotificationService struct {
	notifications core.INotificationRepo
	mylog         logger.Logger
}

func NewNotificationService(notifications core.INotificationRepo, mylog logger.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, mylog: mylog}
}

// List returns the user's notifications, newest first, with the unread count.
func (ns *NotificationService) List(ctx context.Context, uid string) (dto.NotificationList, error) {
	list, err := ns.notifications.ListByUser(ctx, uid)
	if err != nil {
		ns.mylog.Action("list_notifications").Error("Failed to list notifications", err, "user_id", uid)
		return dto.NotificationList{}, fmt.Errorf("cannot list notifications: %w", err)
	}
	if list == nil {
		list = []models.Notification{}
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	return dto.NotificationList{Notifications: list, Unread: unread}, nil
}

func (ns *NotificationService) MarkRead(ctx context.Context, uid, id string) error {
	err := ns.notifications.MarkRead(ctx, uid, id)
	if errors.Is(err, store.ErrNotFound) {
		return core.ErrNotificationMissing
	}
	if err != nil {
		ns.mylog.Action("mark_read").Error("Failed to mark notification", err, "user_id", uid, "notification_id", id)
		return fmt.Errorf("cannot mark notification: %w", err)
	}
	return nil
}

func (ns *NotificationService) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	n, err := ns.notifications.MarkAllRead(ctx, uid)
	if err != nil {
		ns.mylog.Action("mark_all_read").Error("Failed to mark notifications", err, "user_id", uid)
		return 0, fmt.Errorf("cannot mark notifications: %w", err)
	}
	ns.mylog.Action("mark_all_read").Debug("Notifications marked read", "user_id", uid, "count", n)
	return n, nil
}
