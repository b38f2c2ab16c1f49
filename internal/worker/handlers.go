package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/ecosim"
	"github.com/shaiso/Biome/internal/mq"
	"github.com/shaiso/Biome/internal/repo"
)

// handleGradingPending обрабатывает событие из очереди gradings.pending.
func (w *Worker) handleGradingPending(ctx context.Context, payload mq.GradingPendingPayload) error {
	w.logger.Debug("received grading.pending event",
		"grading_id", payload.GradingID,
	)

	// Обрабатываем грейдинг
	if err := w.processGrading(ctx, payload.GradingID); err != nil {
		// Ожидаемые ситуации — не возвращаем ошибку (ack)
		if errors.Is(err, ErrGradingNotFound) || errors.Is(err, ErrGradingNotPending) {
			w.logger.Debug("grading not processed", "grading_id", payload.GradingID, "reason", err)
			return nil
		}
		w.logger.Error("failed to process grading", "grading_id", payload.GradingID, "error", err)
		return err
	}

	return nil
}

// processGrading загружает грейдинг из БД, прогоняет проверки и
// сохраняет отчёт.
func (w *Worker) processGrading(ctx context.Context, gradingID uuid.UUID) error {
	// 1. Загружаем грейдинг из БД
	grading, err := w.gradingRepo.GetByID(ctx, gradingID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrGradingNotFound, gradingID)
		}
		return fmt.Errorf("get grading: %w", err)
	}

	// 2. Проверяем статус
	if grading.Status != domain.GradingStatusPending {
		return ErrGradingNotPending
	}

	// 3. Помечаем как running
	grading.MarkRunning()
	if err := w.gradingRepo.Update(ctx, grading); err != nil {
		return fmt.Errorf("update grading to running: %w", err)
	}

	w.logger.Info("grading started",
		"grading_id", grading.ID,
		"submission_id", grading.SubmissionID,
		"version", grading.Version,
		"scenario", grading.Scenario,
	)

	// 4. Загружаем сабмишен и проверяемую версию
	sub, err := w.submissionRepo.GetByID(ctx, grading.SubmissionID)
	if err != nil {
		return w.markErrored(ctx, grading, fmt.Errorf("get submission: %w", err))
	}

	sv, err := w.submissionRepo.GetVersion(ctx, grading.SubmissionID, grading.Version)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return w.markErrored(ctx, grading, fmt.Errorf("%w: version %d", ErrVersionNotFound, grading.Version))
		}
		return w.markErrored(ctx, grading, fmt.Errorf("get submission version: %w", err))
	}

	// 5. Разрешаем сценарий проверки
	scenario, err := w.resolveScenario(ctx, sub.Assignment, grading.Scenario)
	if err != nil {
		return w.markErrored(ctx, grading, err)
	}

	// 6. Прогоняем проверки. Grade не возвращает ошибок: сломанный
	// сабмишен — это FAILED-отчёт.
	report := w.grader.Grade(ctx, &sv.Manifest, scenario)

	// 7. Сохраняем результат
	grading.MarkGraded(report)
	if err := w.gradingRepo.Update(ctx, grading); err != nil {
		return fmt.Errorf("update grading to graded: %w", err)
	}

	gradingsTotal.WithLabelValues(string(grading.Status)).Inc()
	gradingDuration.Observe(grading.Duration().Seconds())
	for _, check := range report.FailedChecks() {
		checksFailedTotal.WithLabelValues(check.Name).Inc()
	}

	w.logger.Info("grading finished",
		"grading_id", grading.ID,
		"submission_id", grading.SubmissionID,
		"version", grading.Version,
		"status", grading.Status,
		"duration", grading.Duration(),
	)

	return w.publishCompletion(ctx, grading, "")
}

// resolveScenario находит сценарий проверки по имени.
//
// Источник истины — таблица scenarios; для встроенного задания
// ecosystem-sim baseline-сценарий доступен и без БД.
func (w *Worker) resolveScenario(ctx context.Context, assignment, name string) (domain.Scenario, error) {
	if w.scenarioRepo != nil {
		scenario, err := w.scenarioRepo.GetByName(ctx, assignment, name)
		if err == nil {
			return *scenario, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return domain.Scenario{}, fmt.Errorf("get scenario: %w", err)
		}
	}

	if assignment == ecosim.Assignment && name == ecosim.ScenarioBaseline {
		return ecosim.BaselineScenario(), nil
	}

	return domain.Scenario{}, fmt.Errorf("%w: %s/%s", ErrScenarioNotFound, assignment, name)
}

// markErrored фиксирует инфраструктурную ошибку грейдинга.
func (w *Worker) markErrored(ctx context.Context, grading *domain.Grading, cause error) error {
	grading.MarkErrored(cause.Error())
	if err := w.gradingRepo.Update(ctx, grading); err != nil {
		return fmt.Errorf("update grading to errored: %w", err)
	}

	gradingsTotal.WithLabelValues(string(grading.Status)).Inc()

	w.logger.Warn("grading errored",
		"grading_id", grading.ID,
		"submission_id", grading.SubmissionID,
		"error", cause,
	)

	return w.publishCompletion(ctx, grading, cause.Error())
}

// publishCompletion публикует событие grading.completed.
func (w *Worker) publishCompletion(ctx context.Context, grading *domain.Grading, errMsg string) error {
	if w.publisher == nil {
		w.logger.Warn("publisher not available, skipping grading.completed publish",
			"grading_id", grading.ID,
		)
		return nil
	}

	payload := mq.GradingCompletedPayload{
		GradingID:    grading.ID,
		SubmissionID: grading.SubmissionID,
		Version:      grading.Version,
		Status:       string(grading.Status),
		Error:        errMsg,
	}

	if err := w.publisher.PublishGradingCompleted(ctx, payload); err != nil {
		w.logger.Warn("failed to publish grading.completed",
			"grading_id", grading.ID,
			"error", err,
		)
		// Не возвращаем ошибку — грейдинг обновлён в БД, потребители
		// подхватят результат через API
	}

	return nil
}
