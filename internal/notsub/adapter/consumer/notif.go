package consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"blueberry/internal/notsub/app/core"
	"blueberry/internal/notsub/app/services"
	"blueberry/internal/xpkg/broker"
	"blueberry/internal/xpkg/config"
	"blueberry/internal/xpkg/db"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/metrics"
	"blueberry/internal/xpkg/store"
)

type dispatcher interface {
	Dispatch(ctx context.Context, routingKey string, body []byte) error
}

type Notification struct {
	cfg        *config.Config
	mylog      logger.Logger
	db         core.IDB
	mb         core.IRabbitMQ
	dispatcher dispatcher
	metrics    *metrics.Metrics
	ctx        context.Context
	appCtx     context.Context

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewNotification(
	ctx context.Context,
	appCtx context.Context,
	cfg *config.Config,
	mylog logger.Logger,
) *Notification {
	return &Notification{
		ctx:     ctx,
		appCtx:  appCtx,
		cfg:     cfg,
		mylog:   mylog,
		metrics: metrics.New("notification-subscriber"),
	}
}

// Run connects to the database and the broker, then consumes the
// notification queue until the context is cancelled or the channel closes.
func (n *Notification) Run() error {
	mylog := n.mylog.Action("run_notifications")

	n.mu.Lock()
	if err := n.initializeDatabase(); err != nil {
		n.mu.Unlock()
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Successful database connection")

	if err := n.initializeRabbitMQ(); err != nil {
		n.mu.Unlock()
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("Successful message broker connection")

	n.dispatcher = services.NewNotificationService(store.NewNotificationRepo(n.db), n.metrics, n.mylog)

	deliveries, err := n.mb.Consume(n.appCtx, broker.NotificationQueue, core.ConsumerTag)
	n.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to consume from rabbitmq: %w", err)
	}
	mylog.Info("Consuming notifications", "queue", broker.NotificationQueue)

	n.work(deliveries)
	return nil
}

// Stop waits for in-flight messages, then closes the broker and the
// database.
func (n *Notification) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.mylog.Action("graceful_shutdown_started").Info("Shutting down")

	n.wg.Wait()

	if n.mb != nil {
		if err := n.mb.Close(); err != nil {
			n.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		n.mylog.Action("mb_closed").Info("Message broker closed")
	}

	if n.db != nil {
		if err := n.db.Close(); err != nil {
			n.mylog.Action("db_close_failed").Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		n.mylog.Action("db_closed").Info("Database closed")
	}

	n.mylog.Action("graceful_shutdown_completed").Info("Successfully shut down")
	return nil
}

func (n *Notification) work(deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-n.ctx.Done():
			n.mylog.Action("work_shutdown").Info("Stopping message consumption due to context cancel")
			return

		case msg, ok := <-deliveries:
			if !ok {
				n.mylog.Action("work_shutdown").Warn("Delivery channel closed")
				return
			}
			n.wg.Add(1)
			go func(msg amqp.Delivery) {
				defer n.wg.Done()
				n.processMsg(msg)
			}(msg)
		}
	}
}

// processMsg settles one delivery: ack on success, drop malformed input
// to the dead letter queue, requeue anything else.
func (n *Notification) processMsg(msg amqp.Delivery) {
	mylog := n.mylog.Action("process_message").With("routing_key", msg.RoutingKey, "delivery_tag", msg.DeliveryTag)

	ctx, cancel := context.WithTimeout(n.appCtx, core.WaitTime*time.Second)
	defer cancel()

	err := n.dispatcher.Dispatch(ctx, msg.RoutingKey, msg.Body)
	switch {
	case err == nil:
		if err := msg.Ack(false); err != nil {
			mylog.Error("Failed to ack", err)
		}
	case errors.Is(err, core.ErrMalformed):
		mylog.Warn("Discarding malformed message", "error", err.Error())
		if err := msg.Nack(false, false); err != nil {
			mylog.Error("Failed to nack", err)
		}
	default:
		mylog.Error("Failed to process message, requeueing", err)
		if err := msg.Nack(false, true); err != nil {
			mylog.Error("Failed to nack", err)
		}
	}
}

func (n *Notification) initializeDatabase() error {
	conn, err := db.Start(n.appCtx, n.cfg.DB, n.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	n.db = conn
	return nil
}

func (n *Notification) initializeRabbitMQ() error {
	mb, err := broker.New(n.appCtx, n.cfg.RMQ, n.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	n.mb = mb
	return nil
}
