package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/mq"
	"github.com/shaiso/Biome/internal/repo"
)

// Scheduler — планировщик плановых перепроверок.
type Scheduler struct {
	scheduleRepo   *repo.ScheduleRepo
	gradingRepo    *repo.GradingRepo
	submissionRepo *repo.SubmissionRepo
	publisher      *mq.Publisher
	logger         *slog.Logger
	batchSize      int
}

// Config — конфигурация Scheduler.
type Config struct {
	ScheduleRepo   *repo.ScheduleRepo
	GradingRepo    *repo.GradingRepo
	SubmissionRepo *repo.SubmissionRepo
	Publisher      *mq.Publisher
	Logger         *slog.Logger
	BatchSize      int // количество расписаний за один тик (default: 100)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Scheduler{
		scheduleRepo:   cfg.ScheduleRepo,
		gradingRepo:    cfg.GradingRepo,
		submissionRepo: cfg.SubmissionRepo,
		publisher:      cfg.Publisher,
		logger:         cfg.Logger,
		batchSize:      batchSize,
	}
}

// Tick выполняет один тик планировщика.
//
// 1. Находит due расписания (enabled=true, next_due_at <= now)
// 2. Для каждого расписания создаёт грейдинги для активных сабмишенов
// 3. Обновляет next_due_at
// 4. Публикует grading.pending в RabbitMQ
//
// Ошибки одного расписания не блокируют обработку остальных.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now()

	// 1. Находим due расписания
	schedules, err := s.scheduleRepo.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return fmt.Errorf("list due schedules: %w", err)
	}

	if len(schedules) == 0 {
		return nil
	}

	s.logger.Debug("found due schedules", "count", len(schedules))

	// 2. Обрабатываем каждое расписание
	var processed, created int
	for i := range schedules {
		sched := &schedules[i]

		gradingsCreated, err := s.processSchedule(ctx, sched, now)
		if err != nil {
			s.logger.Error("failed to process schedule",
				"schedule_id", sched.ID,
				"schedule_name", sched.Name,
				"error", err,
			)
			// Продолжаем обработку остальных
			continue
		}

		processed++
		created += gradingsCreated
	}

	s.logger.Info("scheduler tick completed",
		"due", len(schedules),
		"processed", processed,
		"gradings_created", created,
	)

	return nil
}

// processSchedule обрабатывает одно расписание: создаёт грейдинг для
// последней версии каждого активного сабмишена задания.
// Возвращает количество созданных грейдингов (без дубликатов).
func (s *Scheduler) processSchedule(ctx context.Context, sched *domain.Schedule, now time.Time) (int, error) {
	// 1. Находим активные сабмишены задания
	submissions, err := s.submissionRepo.ListActiveByAssignment(ctx, sched.Assignment)
	if err != nil {
		return 0, fmt.Errorf("list active submissions: %w", err)
	}

	if len(submissions) == 0 {
		s.logger.Debug("no active submissions for schedule",
			"schedule_id", sched.ID,
			"assignment", sched.Assignment,
		)
	}

	// 2. Формируем idempotency key: "{schedule_id}_{next_due_at_unix}"
	// Ключ скоупится по сабмишену, поэтому гарантирует, что для одного
	// расписания и конкретного времени каждый сабмишен будет
	// перепроверен только один раз
	idempKey := fmt.Sprintf("%s_%d", sched.ID, sched.NextDueAt.Unix())

	var created int
	for i := range submissions {
		sub := &submissions[i]

		gradingCreated, err := s.gradeSubmission(ctx, sub, sched, idempKey, now)
		if err != nil {
			s.logger.Error("failed to create grading from schedule",
				"schedule_id", sched.ID,
				"submission_id", sub.ID,
				"error", err,
			)
			// Продолжаем с остальными сабмишенами
			continue
		}
		if gradingCreated {
			created++
		}
	}

	// 3. Вычисляем следующее время срабатывания
	nextDue, err := CalculateNextDue(sched, now)
	if err != nil {
		s.logger.Error("failed to calculate next due, leaving schedule as is",
			"schedule_id", sched.ID,
			"error", err,
		)
		// Расписание некорректное — лучше не трогать next_due_at
		return created, nil
	}

	// 4. Обновляем расписание
	sched.RecordRun(nextDue)
	if err := s.scheduleRepo.Update(ctx, sched); err != nil {
		return created, fmt.Errorf("update schedule: %w", err)
	}

	return created, nil
}

// gradeSubmission создаёт грейдинг для последней версии сабмишена.
// Возвращает true, если грейдинг был создан (не был дубликатом).
func (s *Scheduler) gradeSubmission(ctx context.Context, sub *domain.Submission, sched *domain.Schedule, idempKey string, now time.Time) (bool, error) {
	// 1. Проверяем, что у сабмишена есть хотя бы одна версия
	version, err := s.submissionRepo.GetLatestVersion(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.logger.Warn("submission has no versions, skipping",
				"schedule_id", sched.ID,
				"submission_id", sub.ID,
			)
			// Не возвращаем ошибку — просто пропускаем
			return false, nil
		}
		return false, fmt.Errorf("get latest submission version: %w", err)
	}

	// 2. Проверяем, не создан ли уже грейдинг (idempotency)
	existing, err := s.gradingRepo.GetByIdempotencyKey(ctx, sub.ID, idempKey)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return false, fmt.Errorf("check idempotency: %w", err)
	}

	if existing != nil {
		s.logger.Debug("grading already exists (idempotency)",
			"schedule_id", sched.ID,
			"grading_id", existing.ID,
			"idempotency_key", idempKey,
		)
		return false, nil
	}

	// 3. Создаём новый грейдинг
	grading := &domain.Grading{
		ID:             uuid.New(),
		SubmissionID:   sub.ID,
		Version:        version.Version,
		Scenario:       sched.Scenario,
		Status:         domain.GradingStatusPending,
		IdempotencyKey: idempKey,
		CreatedAt:      now,
	}

	if err := s.gradingRepo.Create(ctx, grading); err != nil {
		return false, fmt.Errorf("create grading: %w", err)
	}

	s.logger.Info("created grading from schedule",
		"grading_id", grading.ID,
		"schedule_id", sched.ID,
		"schedule_name", sched.Name,
		"submission_id", sub.ID,
		"version", version.Version,
	)

	// 4. Публикуем событие в RabbitMQ (если publisher настроен)
	if s.publisher != nil {
		if err := s.publisher.PublishGradingPending(ctx, grading.ID); err != nil {
			// Не фатальная ошибка — грейдинг уже создан в БД,
			// worker заберёт его через polling
			s.logger.Warn("failed to publish grading.pending",
				"grading_id", grading.ID,
				"error", err,
			)
		}
	}

	return true, nil
}
