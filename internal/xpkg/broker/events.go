package broker

import (
	"context"

	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
}

// PublishOrderChanges emits one message per status or niveau change. A
// failed publish is logged and skipped: the order change itself has
// already been committed.
func PublishOrderChanges(ctx context.Context, pub Publisher, o models.Order, changes []models.StatusChange, mylog logger.Logger) int {
	sent := 0
	for _, msg := range models.UpdateMessages(o, changes) {
		log := mylog.With("order_id", msg.OrderID, "field", msg.Field, "new_value", msg.NewValue)
		if err := pub.Publish(ctx, msg.RoutingKey(), msg); err != nil {
			log.Error("Failed to publish order update", err)
			continue
		}
		log.Debug("Published order update")
		sent++
	}
	return sent
}
