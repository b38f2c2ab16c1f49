package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/repo"
	"github.com/shaiso/Biome/internal/submission"
)

// ListSubmissions возвращает список сабмишенов с фильтрацией.
// GET /api/v1/submissions?assignment=...&student=...&limit=...&offset=...
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	filter := repo.SubmissionFilter{
		Assignment: r.URL.Query().Get("assignment"),
		Student:    r.URL.Query().Get("student"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		filter.Limit = int(mustParseInt(limitStr, 50))
	} else {
		filter.Limit = 50
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		filter.Offset = int(mustParseInt(offsetStr, 0))
	}

	subs, err := h.submissionRepo.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]SubmissionResponse, len(subs))
	for i, s := range subs {
		result[i] = SubmissionFromDomain(s)
	}

	List(w, result, len(result))
}

// CreateSubmission создаёт новый сабмишен.
// POST /api/v1/submissions
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Student == "" {
		BadRequest(w, "student is required")
		return
	}
	if req.Assignment == "" {
		BadRequest(w, "assignment is required")
		return
	}

	// Один студент — один сабмишен на задание
	if existing, err := h.submissionRepo.GetByStudent(r.Context(), req.Student, req.Assignment); err == nil && existing != nil {
		Conflict(w, "submission already exists for this student and assignment")
		return
	}

	sub := &domain.Submission{
		ID:         uuid.New(),
		Student:    req.Student,
		Assignment: req.Assignment,
		IsActive:   true,
	}

	if err := h.submissionRepo.Create(r.Context(), sub); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, SubmissionFromDomain(*sub))
}

// GetSubmission возвращает сабмишен по ID.
// GET /api/v1/submissions/{id}
func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid submission id")
		return
	}

	sub, err := h.submissionRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "submission not found") {
		return
	}

	Success(w, SubmissionFromDomain(*sub))
}

// UpdateSubmission обновляет сабмишен.
// PUT /api/v1/submissions/{id}
func (h *Handler) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid submission id")
		return
	}

	var req UpdateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	sub, err := h.submissionRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "submission not found") {
		return
	}

	if req.Student != nil {
		sub.Student = *req.Student
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := h.submissionRepo.Update(r.Context(), sub); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, SubmissionFromDomain(*sub))
}

// DeleteSubmission удаляет сабмишен.
// DELETE /api/v1/submissions/{id}
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid submission id")
		return
	}

	if err := h.submissionRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "submission not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// ListSubmissionVersions возвращает все версии сабмишена.
// GET /api/v1/submissions/{id}/versions
func (h *Handler) ListSubmissionVersions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid submission id")
		return
	}

	// Проверяем, что сабмишен существует
	_, err = h.submissionRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "submission not found") {
		return
	}

	versions, err := h.submissionRepo.ListVersions(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]SubmissionVersionResponse, len(versions))
	for i, v := range versions {
		result[i] = SubmissionVersionFromDomain(v)
	}

	List(w, result, len(result))
}

// CreateSubmissionVersion создаёт новую версию сабмишена (пересдачу).
// POST /api/v1/submissions/{id}/versions
func (h *Handler) CreateSubmissionVersion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid submission id")
		return
	}

	var req CreateSubmissionVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	// Структурная валидация манифеста — битые манифесты в БД не попадают
	if err := submission.Validate(&req.Manifest); err != nil {
		BadRequest(w, err.Error())
		return
	}

	// Проверяем, что сабмишен существует
	_, err = h.submissionRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "submission not found") {
		return
	}

	version, err := h.submissionRepo.CreateVersion(r.Context(), id, req.Manifest)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, SubmissionVersionFromDomain(*version))
}

// GetSubmissionVersion возвращает конкретную версию сабмишена.
// GET /api/v1/submissions/{id}/versions/{version}
func (h *Handler) GetSubmissionVersion(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid submission id")
		return
	}

	versionNum, err := strconv.Atoi(r.PathValue("version"))
	if err != nil {
		BadRequest(w, "invalid version number")
		return
	}

	version, err := h.submissionRepo.GetVersion(r.Context(), id, versionNum)
	if HandleRepoError(w, h.logger, err, "submission version not found") {
		return
	}

	Success(w, SubmissionVersionFromDomain(*version))
}

// mustParseInt парсит строку в int с дефолтным значением.
func mustParseInt(s string, defaultVal int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return defaultVal
	}
	return n
}
