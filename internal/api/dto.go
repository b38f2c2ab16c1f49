package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Biome/internal/domain"
)

// Submission DTOs

// CreateSubmissionRequest — запрос на создание сабмишена.
type CreateSubmissionRequest struct {
	Student    string `json:"student"`
	Assignment string `json:"assignment"`
}

// UpdateSubmissionRequest — запрос на обновление сабмишена.
type UpdateSubmissionRequest struct {
	Student  *string `json:"student,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SubmissionResponse — ответ с сабмишеном.
type SubmissionResponse struct {
	ID         uuid.UUID `json:"id"`
	Student    string    `json:"student"`
	Assignment string    `json:"assignment"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubmissionFromDomain конвертирует domain.Submission в SubmissionResponse.
func SubmissionFromDomain(s domain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:         s.ID,
		Student:    s.Student,
		Assignment: s.Assignment,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
	}
}

// SubmissionVersion DTOs

// CreateSubmissionVersionRequest — запрос на создание версии сабмишена.
type CreateSubmissionVersionRequest struct {
	Manifest domain.Manifest `json:"manifest"`
}

// SubmissionVersionResponse — ответ с версией сабмишена.
type SubmissionVersionResponse struct {
	SubmissionID uuid.UUID       `json:"submission_id"`
	Version      int             `json:"version"`
	Manifest     domain.Manifest `json:"manifest"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SubmissionVersionFromDomain конвертирует domain.SubmissionVersion в SubmissionVersionResponse.
func SubmissionVersionFromDomain(v domain.SubmissionVersion) SubmissionVersionResponse {
	return SubmissionVersionResponse{
		SubmissionID: v.SubmissionID,
		Version:      v.Version,
		Manifest:     v.Manifest,
		CreatedAt:    v.CreatedAt,
	}
}

// Grading DTOs

// CreateGradingRequest — запрос на создание грейдинга.
type CreateGradingRequest struct {
	Scenario       string `json:"scenario,omitempty"`
	Version        *int   `json:"version,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// GradingResponse — ответ с грейдингом.
type GradingResponse struct {
	ID             uuid.UUID      `json:"id"`
	SubmissionID   uuid.UUID      `json:"submission_id"`
	Version        int            `json:"version"`
	Scenario       string         `json:"scenario"`
	Status         string         `json:"status"`
	Report         *domain.Report `json:"report,omitempty"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	Error          string         `json:"error,omitempty"`
	IdempotencyKey string         `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// GradingFromDomain конвертирует domain.Grading в GradingResponse.
func GradingFromDomain(g domain.Grading) GradingResponse {
	return GradingResponse{
		ID:             g.ID,
		SubmissionID:   g.SubmissionID,
		Version:        g.Version,
		Scenario:       g.Scenario,
		Status:         string(g.Status),
		Report:         g.Report,
		StartedAt:      g.StartedAt,
		FinishedAt:     g.FinishedAt,
		Error:          g.Error,
		IdempotencyKey: g.IdempotencyKey,
		CreatedAt:      g.CreatedAt,
	}
}

// Schedule DTOs

// CreateScheduleRequest — запрос на создание расписания.
type CreateScheduleRequest struct {
	Name        string `json:"name"`
	Scenario    string `json:"scenario"`
	CronExpr    string `json:"cron_expr,omitempty"`
	IntervalSec int    `json:"interval_sec,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// UpdateScheduleRequest — запрос на обновление расписания.
type UpdateScheduleRequest struct {
	Name        *string `json:"name,omitempty"`
	Scenario    *string `json:"scenario,omitempty"`
	CronExpr    *string `json:"cron_expr,omitempty"`
	IntervalSec *int    `json:"interval_sec,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
}

// SetEnabledRequest — запрос на включение/выключение.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ScheduleResponse — ответ с расписанием.
type ScheduleResponse struct {
	ID          uuid.UUID  `json:"id"`
	Assignment  string     `json:"assignment"`
	Name        string     `json:"name"`
	Scenario    string     `json:"scenario"`
	CronExpr    string     `json:"cron_expr,omitempty"`
	IntervalSec int        `json:"interval_sec,omitempty"`
	Timezone    string     `json:"timezone"`
	Enabled     bool       `json:"enabled"`
	NextDueAt   *time.Time `json:"next_due_at,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ScheduleFromDomain конвертирует domain.Schedule в ScheduleResponse.
func ScheduleFromDomain(s *domain.Schedule) ScheduleResponse {
	if s == nil {
		return ScheduleResponse{}
	}
	return ScheduleResponse{
		ID:          s.ID,
		Assignment:  s.Assignment,
		Name:        s.Name,
		Scenario:    s.Scenario,
		CronExpr:    s.CronExpr,
		IntervalSec: s.IntervalSec,
		Timezone:    s.Timezone,
		Enabled:     s.Enabled,
		NextDueAt:   s.NextDueAt,
		LastRunAt:   s.LastRunAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
