package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// fakeAcknowledger фиксирует ack/nack без живого брокера.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(_ uint64, _ bool) error { f.acked = true; return nil }

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func testConsumer(handlers GradingHandlers) *Consumer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewConsumer(nil, logger, ConsumerConfig{
		Queue:    QueueGradingsPending,
		Handlers: handlers,
	})
}

func pendingBody(t *testing.T, gradingID uuid.UUID) []byte {
	t.Helper()
	body, err := json.Marshal(Message{
		ID:      uuid.NewString(),
		Type:    MessageTypeGradingPending,
		Payload: GradingPendingPayload{GradingID: gradingID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return body
}

func TestConsumer_DispatchPending(t *testing.T) {
	gradingID := uuid.New()
	var got uuid.UUID

	c := testConsumer(GradingHandlers{
		Pending: func(_ context.Context, payload GradingPendingPayload) error {
			got = payload.GradingID
			return nil
		},
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         pendingBody(t, gradingID),
	})

	if got != gradingID {
		t.Errorf("handler got grading %s, expected %s", got, gradingID)
	}
	if !ack.acked || ack.nacked {
		t.Errorf("expected ack, got acked=%v nacked=%v", ack.acked, ack.nacked)
	}
}

func TestConsumer_HandlerErrorRequeues(t *testing.T) {
	c := testConsumer(GradingHandlers{
		Pending: func(_ context.Context, _ GradingPendingPayload) error {
			return errors.New("db unavailable")
		},
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         pendingBody(t, uuid.New()),
	})

	if !ack.nacked || !ack.requeue {
		t.Errorf("handler failure must requeue, got nacked=%v requeue=%v", ack.nacked, ack.requeue)
	}
}

func TestConsumer_MalformedEnvelopeGoesToDLQ(t *testing.T) {
	c := testConsumer(GradingHandlers{
		Pending: func(_ context.Context, _ GradingPendingPayload) error {
			t.Error("handler must not be called for a malformed envelope")
			return nil
		},
	})

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte("not json"),
	})

	if !ack.nacked || ack.requeue {
		t.Errorf("malformed envelope must go to DLQ, got nacked=%v requeue=%v", ack.nacked, ack.requeue)
	}
}

func TestConsumer_UnknownTypeGoesToDLQ(t *testing.T) {
	c := testConsumer(GradingHandlers{
		Pending: func(_ context.Context, _ GradingPendingPayload) error { return nil },
	})

	body, err := json.Marshal(Message{
		ID:   uuid.NewString(),
		Type: MessageType("grading.exploded"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         body,
	})

	if !ack.nacked || ack.requeue {
		t.Errorf("unknown type must go to DLQ, got nacked=%v requeue=%v", ack.nacked, ack.requeue)
	}
}

func TestConsumer_NoHandlerGoesToDLQ(t *testing.T) {
	// Очередь pending без зарегистрированного обработчика completed.
	c := testConsumer(GradingHandlers{
		Pending: func(_ context.Context, _ GradingPendingPayload) error { return nil },
	})

	body, err := json.Marshal(Message{
		ID:      uuid.NewString(),
		Type:    MessageTypeGradingCompleted,
		Payload: GradingCompletedPayload{GradingID: uuid.New()},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         body,
	})

	if !ack.nacked || ack.requeue {
		t.Errorf("event without a handler must go to DLQ, got nacked=%v requeue=%v", ack.nacked, ack.requeue)
	}
}

func TestConsumer_MalformedPayloadGoesToDLQ(t *testing.T) {
	c := testConsumer(GradingHandlers{
		Pending: func(_ context.Context, _ GradingPendingPayload) error {
			t.Error("handler must not be called for a malformed payload")
			return nil
		},
	})

	body, err := json.Marshal(Message{
		ID:      uuid.NewString(),
		Type:    MessageTypeGradingPending,
		Payload: map[string]any{"grading_id": "not-a-uuid"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ack := &fakeAcknowledger{}
	c.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		Body:         body,
	})

	if !ack.nacked || ack.requeue {
		t.Errorf("malformed payload must go to DLQ, got nacked=%v requeue=%v", ack.nacked, ack.requeue)
	}
}
