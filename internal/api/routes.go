package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Submissions
	mux.Handle("GET /api/v1/submissions", chain(http.HandlerFunc(h.ListSubmissions)))
	mux.Handle("POST /api/v1/submissions", chain(http.HandlerFunc(h.CreateSubmission)))
	mux.Handle("GET /api/v1/submissions/{id}", chain(http.HandlerFunc(h.GetSubmission)))
	mux.Handle("PUT /api/v1/submissions/{id}", chain(http.HandlerFunc(h.UpdateSubmission)))
	mux.Handle("DELETE /api/v1/submissions/{id}", chain(http.HandlerFunc(h.DeleteSubmission)))

	// Submission Versions
	mux.Handle("GET /api/v1/submissions/{id}/versions", chain(http.HandlerFunc(h.ListSubmissionVersions)))
	mux.Handle("POST /api/v1/submissions/{id}/versions", chain(http.HandlerFunc(h.CreateSubmissionVersion)))
	mux.Handle("GET /api/v1/submissions/{id}/versions/{version}", chain(http.HandlerFunc(h.GetSubmissionVersion)))

	// Gradings
	mux.Handle("GET /api/v1/gradings", chain(http.HandlerFunc(h.ListGradings)))
	mux.Handle("POST /api/v1/submissions/{id}/gradings", chain(http.HandlerFunc(h.CreateGrading)))
	mux.Handle("GET /api/v1/gradings/{id}", chain(http.HandlerFunc(h.GetGrading)))
	mux.Handle("GET /api/v1/gradings/{id}/report", chain(http.HandlerFunc(h.GetGradingReport)))

	// Scenarios
	mux.Handle("GET /api/v1/assignments/{assignment}/scenarios", chain(http.HandlerFunc(h.ListScenarios)))
	mux.Handle("GET /api/v1/assignments/{assignment}/scenarios/{name}", chain(http.HandlerFunc(h.GetScenario)))
	mux.Handle("PUT /api/v1/assignments/{assignment}/scenarios/{name}", chain(http.HandlerFunc(h.SaveScenario)))
	mux.Handle("DELETE /api/v1/assignments/{assignment}/scenarios/{name}", chain(http.HandlerFunc(h.DeleteScenario)))

	// Schedules
	mux.Handle("GET /api/v1/schedules", chain(http.HandlerFunc(h.ListSchedules)))
	mux.Handle("POST /api/v1/assignments/{assignment}/schedules", chain(http.HandlerFunc(h.CreateSchedule)))
	mux.Handle("GET /api/v1/schedules/{id}", chain(http.HandlerFunc(h.GetSchedule)))
	mux.Handle("PUT /api/v1/schedules/{id}", chain(http.HandlerFunc(h.UpdateSchedule)))
	mux.Handle("DELETE /api/v1/schedules/{id}", chain(http.HandlerFunc(h.DeleteSchedule)))
	mux.Handle("PUT /api/v1/schedules/{id}/enabled", chain(http.HandlerFunc(h.SetScheduleEnabled)))
}
