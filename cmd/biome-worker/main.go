// Biome Worker — выполняет грейдинги сабмишенов.
//
// Worker:
//   - Получает события о новых грейдингах из RabbitMQ
//   - Параллельно поллит базу (fallback при недоступном MQ)
//   - Прогоняет манифест через грейдер по сценарию
//   - Сохраняет отчёт и публикует событие завершения
//
// Workers масштабируются горизонтально.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Biome/internal/mq"
	"github.com/shaiso/Biome/internal/repo"
	"github.com/shaiso/Biome/internal/telemetry"
	"github.com/shaiso/Biome/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting biome-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	// Создаём репозитории
	gradingRepo := repo.NewGradingRepo(pool)
	submissionRepo := repo.NewSubmissionRepo(pool)
	scenarioRepo := repo.NewScenarioRepo(pool)

	// RabbitMQ
	var publisher *mq.Publisher
	var mqConn *mq.Connection

	mqConn, err = mq.NewConnection(mq.URLFromEnv(), logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running in polling-only mode", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		// Создаём топологию
		if err := mq.SetupTopology(mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	// Создаём worker
	w := worker.New(worker.Config{
		GradingRepo:    gradingRepo,
		SubmissionRepo: submissionRepo,
		ScenarioRepo:   scenarioRepo,
		Publisher:      publisher,
		Conn:           mqConn,
		Logger:         logger,
	})

	// Запускаем worker
	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if mqConn != nil && mqConn.IsConnected() {
			w.Write([]byte("ok"))
			return
		}
		w.Write([]byte("ok (polling-only)"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем worker
	w.Stop()
	logger.Info("biome-worker stopped")
}
