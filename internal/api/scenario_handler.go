package api

import (
	"encoding/json"
	"net/http"

	"github.com/shaiso/Biome/internal/domain"
)

// ListScenarios возвращает все сценарии задания.
// GET /api/v1/assignments/{assignment}/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	assignment := r.PathValue("assignment")
	if assignment == "" {
		BadRequest(w, "assignment is required")
		return
	}

	scenarios, err := h.scenarioRepo.ListByAssignment(r.Context(), assignment)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	List(w, scenarios, len(scenarios))
}

// GetScenario возвращает сценарий задания по имени.
// GET /api/v1/assignments/{assignment}/scenarios/{name}
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	assignment := r.PathValue("assignment")
	name := r.PathValue("name")

	scenario, err := h.scenarioRepo.GetByName(r.Context(), assignment, name)
	if HandleRepoError(w, h.logger, err, "scenario not found") {
		return
	}

	Success(w, scenario)
}

// SaveScenario создаёт или обновляет сценарий задания.
// PUT /api/v1/assignments/{assignment}/scenarios/{name}
func (h *Handler) SaveScenario(w http.ResponseWriter, r *http.Request) {
	assignment := r.PathValue("assignment")
	name := r.PathValue("name")

	var scenario domain.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	// Имя в URL — источник истины
	scenario.Name = name

	if len(scenario.Independents) == 0 {
		BadRequest(w, "independents are required")
		return
	}
	if len(scenario.Required) == 0 {
		BadRequest(w, "required outputs are required")
		return
	}

	if err := h.scenarioRepo.Save(r.Context(), assignment, &scenario); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, scenario)
}

// DeleteScenario удаляет сценарий задания.
// DELETE /api/v1/assignments/{assignment}/scenarios/{name}
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	assignment := r.PathValue("assignment")
	name := r.PathValue("name")

	if err := h.scenarioRepo.Delete(r.Context(), assignment, name); err != nil {
		if HandleRepoError(w, h.logger, err, "scenario not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}
