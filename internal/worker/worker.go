package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shaiso/Biome/internal/grader"
	"github.com/shaiso/Biome/internal/mq"
	"github.com/shaiso/Biome/internal/repo"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 50
	defaultPrefetch     = 5
)

// Worker выполняет отдельные грейдинги.
//
// Worker — stateless компонент системы, который:
//   - Получает грейдинги из очереди RabbitMQ (event-driven)
//   - Периодически проверяет pending грейдинги в БД (polling fallback)
//   - Загружает версию сабмишена и сценарий проверки
//   - Прогоняет проверки грейдера и сохраняет отчёт
//   - Публикует результат в очередь gradings.completed
//
// Workers масштабируются горизонтально — несколько экземпляров
// могут потреблять из одной очереди.
type Worker struct {
	// Repositories
	gradingRepo    *repo.GradingRepo
	submissionRepo *repo.SubmissionRepo
	scenarioRepo   *repo.ScenarioRepo

	// MQ
	publisher *mq.Publisher
	conn      *mq.Connection

	// Grader
	grader *grader.Grader

	// Consumer
	consumer *mq.Consumer

	// Configuration
	pollInterval time.Duration
	batchSize    int

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	// Repositories
	GradingRepo    *repo.GradingRepo
	SubmissionRepo *repo.SubmissionRepo
	ScenarioRepo   *repo.ScenarioRepo

	// MQ
	Publisher *mq.Publisher
	Conn      *mq.Connection

	// Grader (опционально; если nil — используется grader.New с дефолтами)
	Grader *grader.Grader

	// Polling configuration
	PollInterval time.Duration // интервал polling (default: 10s)
	BatchSize    int           // количество грейдингов за один poll (default: 50)

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := cfg.Grader
	if g == nil {
		g = grader.New(grader.Config{Logger: logger})
	}

	return &Worker{
		gradingRepo:    cfg.GradingRepo,
		submissionRepo: cfg.SubmissionRepo,
		scenarioRepo:   cfg.ScenarioRepo,
		publisher:      cfg.Publisher,
		conn:           cfg.Conn,
		grader:         g,
		pollInterval:   pollInterval,
		batchSize:      batchSize,
		logger:         logger,
	}
}

// Start запускает Worker.
//
// Запускает:
//   - Consumer для gradings.pending
//   - Polling горутину для fallback
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	// Consumer работает только при живом RabbitMQ
	if w.conn != nil {
		w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
			Queue:    mq.QueueGradingsPending,
			Handlers: mq.GradingHandlers{Pending: w.handleGradingPending},
			Prefetch: defaultPrefetch,
		})

		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Error("grading consumer error", "error", err)
			}
		}()
	}

	// Запускаем polling
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx)
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	if w.consumer != nil {
		w.consumer.Stop()
	}

	// Ждём завершения горутин
	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}

// pollLoop — цикл polling для fallback.
func (w *Worker) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу при старте (подхватываем грейдинги,
	// созданные пока были выключены)
	w.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll выполняет один цикл polling.
func (w *Worker) poll(ctx context.Context) {
	gradings, err := w.gradingRepo.ListPending(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("failed to list pending gradings", "error", err)
		return
	}

	if len(gradings) == 0 {
		return
	}

	w.logger.Debug("poll found pending gradings", "count", len(gradings))

	for i := range gradings {
		grading := &gradings[i]

		if err := w.processGrading(ctx, grading.ID); err != nil {
			w.logger.Error("failed to process grading from poll",
				"grading_id", grading.ID,
				"error", err,
			)
		}
	}
}
