package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"blueberry/internal/xpkg/config"
	xerrors "blueberry/internal/xpkg/errors"
	"blueberry/internal/xpkg/logger"
	"blueberry/internal/xpkg/models"
)

const (
	Exchange          = "order_updates"
	NotificationQueue = "notifications"
	deadLetterQueue   = "notifications_dlq"
	deadLetterExch    = "order_updates_dlx"

	reconnectEvery = 5 * time.Second
)

// bindings routes every event the notification subscriber handles.
var bindings = []string{
	models.RoutingOrderStatus,
	models.RoutingOrderNiveau,
	models.RoutingPasswordReset,
}

type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMQ
	conn         *amqp.Connection
	ch           *amqp.Channel
	mylog        logger.Logger
	reconnecting bool
	mu           sync.Mutex
}

// New dials RabbitMQ and declares the exchange, queues and bindings.
func New(ctx context.Context, cfg config.RabbitMQ, mylog logger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		ctx:   ctx,
		cfg:   cfg,
		mylog: mylog,
	}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.cfg.URL())
	if err != nil {
		return fmt.Errorf("%w: %v", xerrors.ErrMBConn, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", xerrors.ErrMBCh, err)
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return err
	}
	if err := ch.Qos(r.cfg.Prefetch, 0, false); err != nil {
		conn.Close()
		return err
	}
	if err := declareTopology(ch); err != nil {
		conn.Close()
		return err
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if err := ch.ExchangeDeclare(deadLetterExch, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead letter exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(deadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare dead letter queue: %w", err)
	}
	if err := ch.QueueBind(deadLetterQueue, "", deadLetterExch, false, nil); err != nil {
		return fmt.Errorf("bind dead letter queue: %w", err)
	}

	args := amqp.Table{"x-dead-letter-exchange": deadLetterExch}
	if _, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, args); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	for _, key := range bindings {
		if err := ch.QueueBind(NotificationQueue, key, Exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

func (r *RabbitMQ) IsAlive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return false
	}
	if r.ch == nil || r.ch.IsClosed() {
		return false
	}
	return true
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

// Publish sends body as a persistent JSON message. A dead connection starts
// a background reconnect and the message is reported as failed.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, body any) error {
	if !r.IsAlive() {
		go r.reconnect(r.ctx)
		return xerrors.ErrMBConn
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	err = ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         raw,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Consume starts delivering messages of queue with manual acknowledgement.
func (r *RabbitMQ) Consume(ctx context.Context, queue, consumer string) (<-chan amqp.Delivery, error) {
	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()
	if ch == nil {
		return nil, xerrors.ErrMBCh
	}
	return ch.ConsumeWithContext(ctx, queue, consumer, false, false, false, false, nil)
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.reconnecting = false
		r.mu.Unlock()
	}()

	t := time.NewTicker(reconnectEvery)
	defer t.Stop()
	log := r.mylog.Action("rabbitmq_reconnecting")

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				log.Info("rabbitmq reconnected")
				return
			}
			log.Warn("rabbitmq failed to reconnect")
		case <-ctx.Done():
			return
		}
	}
}
