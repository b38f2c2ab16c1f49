package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/ecosim"
	"github.com/shaiso/Biome/internal/repo"
)

// ListGradings возвращает список грейдингов с фильтрацией.
// GET /api/v1/gradings?submission_id=...&status=...&limit=...&offset=...
func (h *Handler) ListGradings(w http.ResponseWriter, r *http.Request) {
	filter := repo.GradingFilter{}

	// Парсим query параметры
	if subIDStr := r.URL.Query().Get("submission_id"); subIDStr != "" {
		subID, err := uuid.Parse(subIDStr)
		if err != nil {
			BadRequest(w, "invalid submission_id")
			return
		}
		filter.SubmissionID = &subID
	}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.GradingStatus(status)
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		filter.Limit = int(mustParseInt(limitStr, 50))
	} else {
		filter.Limit = 50
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		filter.Offset = int(mustParseInt(offsetStr, 0))
	}

	gradings, err := h.gradingRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]GradingResponse, len(gradings))
	for i, g := range gradings {
		result[i] = GradingFromDomain(g)
	}

	List(w, result, len(result))
}

// CreateGrading создаёт новый грейдинг для сабмишена.
// POST /api/v1/submissions/{id}/gradings
func (h *Handler) CreateGrading(w http.ResponseWriter, r *http.Request) {
	subID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid submission id")
		return
	}

	var req CreateGradingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	// Проверяем, что сабмишен существует
	sub, err := h.submissionRepo.GetByID(r.Context(), subID)
	if HandleRepoError(w, h.logger, err, "submission not found") {
		return
	}

	// Определяем версию
	var version int
	if req.Version != nil {
		version = *req.Version
		// Проверяем, что версия существует
		_, err := h.submissionRepo.GetVersion(r.Context(), subID, version)
		if HandleRepoError(w, h.logger, err, "submission version not found") {
			return
		}
	} else {
		// Используем последнюю версию
		latest, err := h.submissionRepo.GetLatestVersion(r.Context(), subID)
		if HandleRepoError(w, h.logger, err, "submission has no versions") {
			return
		}
		version = latest.Version
	}

	// Определяем сценарий: по умолчанию — baseline
	scenario := req.Scenario
	if scenario == "" {
		scenario = ecosim.ScenarioBaseline
	}

	// Проверяем, что сценарий известен (встроенный baseline доступен всегда)
	if !(sub.Assignment == ecosim.Assignment && scenario == ecosim.ScenarioBaseline) {
		_, err := h.scenarioRepo.GetByName(r.Context(), sub.Assignment, scenario)
		if HandleRepoError(w, h.logger, err, "scenario not found") {
			return
		}
	}

	// Проверяем idempotency key
	if req.IdempotencyKey != "" {
		existing, err := h.gradingRepo.GetByIdempotencyKey(r.Context(), subID, req.IdempotencyKey)
		if err == nil && existing != nil {
			// Возвращаем существующий грейдинг
			Success(w, GradingFromDomain(*existing))
			return
		}
	}

	grading := &domain.Grading{
		ID:             uuid.New(),
		SubmissionID:   subID,
		Version:        version,
		Scenario:       scenario,
		Status:         domain.GradingStatusPending,
		IdempotencyKey: req.IdempotencyKey,
	}

	if err := h.gradingRepo.Create(r.Context(), grading); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	// Публикуем событие в очередь
	if h.publisher != nil {
		if err := h.publisher.PublishGradingPending(r.Context(), grading.ID); err != nil {
			h.logger.Warn("failed to publish grading.pending", "grading_id", grading.ID, "error", err)
		}
	}

	Created(w, GradingFromDomain(*grading))
}

// GetGrading возвращает грейдинг по ID.
// GET /api/v1/gradings/{id}
func (h *Handler) GetGrading(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid grading id")
		return
	}

	grading, err := h.gradingRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "grading not found") {
		return
	}

	Success(w, GradingFromDomain(*grading))
}

// GetGradingReport возвращает отчёт завершённого грейдинга.
// GET /api/v1/gradings/{id}/report
func (h *Handler) GetGradingReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid grading id")
		return
	}

	grading, err := h.gradingRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "grading not found") {
		return
	}

	if grading.Report == nil {
		InvalidState(w, "grading has no report yet")
		return
	}

	Success(w, grading.Report)
}
