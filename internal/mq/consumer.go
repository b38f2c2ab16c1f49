package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Исходы обработки входящего события (label outcome).
const (
	outcomeHandled  = "handled"
	outcomeRequeued = "requeued"
	outcomeRejected = "rejected"
)

var consumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "biome",
	Subsystem: "mq",
	Name:      "messages_total",
	Help:      "Grading event messages consumed by queue and outcome",
}, []string{"queue", "outcome"})

// Ошибки диспетчеризации: такие события повторной обработкой не
// чинятся и уходят в DLQ.
var (
	errUnknownType = errors.New("unknown message type")
	errNoHandler   = errors.New("no handler registered for message type")
	errBadPayload  = errors.New("malformed payload")
)

// GradingHandlers — типизированные обработчики событий грейдинга.
// Ненулевая ошибка обработчика возвращает событие в очередь; nil для
// типа события означает, что очередь его не ждёт.
type GradingHandlers struct {
	Pending   func(ctx context.Context, payload GradingPendingPayload) error
	Completed func(ctx context.Context, payload GradingCompletedPayload) error
}

// envelope — конверт входящего события. Payload остаётся сырым до
// типизированного разбора по Type.
type envelope struct {
	ID        string          `json:"id"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Consumer потребляет события грейдинга из очереди RabbitMQ.
type Consumer struct {
	conn     *Connection
	logger   *slog.Logger
	queue    Queue
	handlers GradingHandlers
	prefetch int

	cancelFunc context.CancelFunc
}

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	// Queue — очередь событий грейдинга.
	Queue Queue

	// Handlers — обработчики по типам событий.
	Handlers GradingHandlers

	// Prefetch — количество событий для предварительной загрузки.
	Prefetch int
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(conn *Connection, logger *slog.Logger, cfg ConsumerConfig) *Consumer {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}

	return &Consumer{
		conn:     conn,
		logger:   logger,
		queue:    cfg.Queue,
		handlers: cfg.Handlers,
		prefetch: prefetch,
	}
}

// Start запускает потребление событий.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel

	return c.run(ctx)
}

// run — основной цикл: подписка, обработка, пересоздание подписки
// после разрыва соединения.
func (c *Consumer) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		deliveries, err := c.subscribe()
		if err != nil {
			c.logger.Error("failed to subscribe", "queue", c.queue, "error", err)
			if err := c.awaitReconnect(ctx); err != nil {
				return err
			}
			continue
		}

		c.logger.Info("consuming grading events", "queue", c.queue)

		if err := c.drain(ctx, deliveries); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("deliveries channel closed, resubscribing", "queue", c.queue)
			if err := c.awaitReconnect(ctx); err != nil {
				return err
			}
		}
	}
}

// awaitReconnect ждёт восстановления соединения или отмены контекста.
func (c *Consumer) awaitReconnect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.conn.ReconnectNotify():
		c.logger.Info("reconnected, restarting consumer", "queue", c.queue)
		return nil
	}
}

// subscribe настраивает канал и начинает потребление.
func (c *Consumer) subscribe() (<-chan amqp.Delivery, error) {
	ch := c.conn.Channel()
	if ch == nil {
		return nil, fmt.Errorf("no channel available")
	}

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(
		string(c.queue), // queue
		"",              // consumer tag (auto-generated)
		false,           // auto-ack (ack вручную после обработчика)
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,             // args
	)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	return deliveries, nil
}

// drain обрабатывает события из канала доставки до его закрытия.
func (c *Consumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("deliveries channel closed")
			}

			c.handleDelivery(ctx, raw)
		}
	}
}

// handleDelivery обрабатывает одно событие.
//
// Битый конверт, неизвестный тип и непригодный payload уходят в DLQ:
// повторная доставка их не починит. Ошибка обработчика возвращает
// событие в очередь для retry.
func (c *Consumer) handleDelivery(ctx context.Context, raw amqp.Delivery) {
	var env envelope
	if err := json.Unmarshal(raw.Body, &env); err != nil {
		c.logger.Error("failed to unmarshal envelope",
			"queue", c.queue,
			"error", err,
			"body", string(raw.Body),
		)
		c.reject(raw)
		return
	}

	c.logger.Debug("received grading event",
		"queue", c.queue,
		"message_id", env.ID,
		"type", env.Type,
	)

	err := c.dispatch(ctx, &env)
	switch {
	case err == nil:
		raw.Ack(false)
		consumedTotal.WithLabelValues(string(c.queue), outcomeHandled).Inc()

	case errors.Is(err, errUnknownType) || errors.Is(err, errNoHandler) || errors.Is(err, errBadPayload):
		c.logger.Error("rejecting grading event",
			"queue", c.queue,
			"message_id", env.ID,
			"type", env.Type,
			"error", err,
		)
		c.reject(raw)

	default:
		c.logger.Error("handler failed, requeueing",
			"queue", c.queue,
			"message_id", env.ID,
			"type", env.Type,
			"error", err,
		)
		raw.Nack(false, true)
		consumedTotal.WithLabelValues(string(c.queue), outcomeRequeued).Inc()
	}
}

// dispatch разбирает payload по типу события и вызывает обработчик.
func (c *Consumer) dispatch(ctx context.Context, env *envelope) error {
	switch env.Type {
	case MessageTypeGradingPending:
		if c.handlers.Pending == nil {
			return fmt.Errorf("%w: %s", errNoHandler, env.Type)
		}
		var payload GradingPendingPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return c.handlers.Pending(ctx, payload)

	case MessageTypeGradingCompleted:
		if c.handlers.Completed == nil {
			return fmt.Errorf("%w: %s", errNoHandler, env.Type)
		}
		var payload GradingCompletedPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return c.handlers.Completed(ctx, payload)

	default:
		return fmt.Errorf("%w: %s", errUnknownType, env.Type)
	}
}

// reject отправляет событие в DLQ (nack без requeue).
func (c *Consumer) reject(raw amqp.Delivery) {
	raw.Nack(false, false)
	consumedTotal.WithLabelValues(string(c.queue), outcomeRejected).Inc()
}

// Stop останавливает consumer.
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
}
