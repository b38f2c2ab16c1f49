package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeGradings Exchange = "biome.gradings"
	ExchangeDLQ      Exchange = "biome.dlq"
)

// Queues — имена очередей.
const (
	QueueGradingsPending   Queue = "gradings.pending"
	QueueGradingsCompleted Queue = "gradings.completed"
	QueueDLQGradings       Queue = "dlq.gradings"
)

// Routing keys.
const (
	RoutingKeyPending     RoutingKey = "pending"
	RoutingKeyCompleted   RoutingKey = "completed"
	RoutingKeyDLQGradings RoutingKey = "gradings"
)

// SetupTopology объявляет exchanges, queues и bindings.
// Идемпотентно: повторный вызов на той же топологии безопасен.
func SetupTopology(conn *Connection) error {
	return conn.WithChannel(func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}
		if err := declareQueues(ch); err != nil {
			return err
		}
		if err := bindQueues(ch); err != nil {
			return err
		}
		return nil
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeGradings, "direct"},
		{ExchangeDLQ, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	// Аргументы для очередей с DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQGradings),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		// gradings.pending — с DLQ (грейдинг может уходить в DLQ после retry)
		{QueueGradingsPending, dlqArgs},

		// gradings.completed — без DLQ (события завершения)
		{QueueGradingsCompleted, nil},

		// dlq.gradings — сама DLQ очередь
		{QueueDLQGradings, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueGradingsPending, RoutingKeyPending, ExchangeGradings},
		{QueueGradingsCompleted, RoutingKeyCompleted, ExchangeGradings},
		{QueueDLQGradings, RoutingKeyDLQGradings, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Biome RabbitMQ Topology:

    biome.gradings (direct)
    ├── gradings.pending [routing: pending]
    │       Consumer: Worker
    │       DLQ: dlq.gradings
    └── gradings.completed [routing: completed]
            Consumer: API notifications (future)

    biome.dlq (direct)
    └── dlq.gradings [routing: gradings]
            Manual processing
  `
}
