package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeGradingPending   MessageType = "grading.pending"
	MessageTypeGradingCompleted MessageType = "grading.completed"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// GradingPendingPayload — payload для сообщения о новом грейдинге.
type GradingPendingPayload struct {
	GradingID uuid.UUID `json:"grading_id"`
}

// GradingCompletedPayload — payload для сообщения о завершённом грейдинге.
type GradingCompletedPayload struct {
	GradingID    uuid.UUID `json:"grading_id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	Version      int       `json:"version"`
	Status       string    `json:"status"` // PASSED, FAILED или ERRORED
	Error        string    `json:"error,omitempty"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishGradingPending публикует событие о новом грейдинге.
func (p *Publisher) PublishGradingPending(ctx context.Context, gradingID uuid.UUID) error {
	msg := &Message{
		ID:        uuid.NewString(),
		Type:      MessageTypeGradingPending,
		Payload:   GradingPendingPayload{GradingID: gradingID},
		Timestamp: time.Now(),
	}
	return p.Publish(ctx, ExchangeGradings, RoutingKeyPending, msg)
}

// PublishGradingCompleted публикует событие о завершённом грейдинге.
func (p *Publisher) PublishGradingCompleted(ctx context.Context, payload GradingCompletedPayload) error {
	msg := &Message{
		ID:        uuid.NewString(),
		Type:      MessageTypeGradingCompleted,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	return p.Publish(ctx, ExchangeGradings, RoutingKeyCompleted, msg)
}
