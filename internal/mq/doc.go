// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий грейдинга
//   - consumer.go   — потребление с типизированной диспетчеризацией
//     по типу события; непригодные сообщения уходят в DLQ
//
// Типы сообщений:
//   - grading.pending   — новый грейдинг ожидает выполнения
//   - grading.completed — грейдинг завершён
//
// Exchanges:
//   - biome.gradings — события грейдингов
//   - biome.dlq      — dead letter queue
package mq
