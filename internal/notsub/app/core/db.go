package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"

	"blueberry/internal/xpkg/models"
)

type IDB interface {
	Close() error
	IsAlive() error
	GetConn() *pgxpool.Pool
}

type IRabbitMQ interface {
	Consume(ctx context.Context, queue, consumer string) (<-chan amqp.Delivery, error)
	Close() error
}

type INotificationRepo interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
}
