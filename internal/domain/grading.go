package domain

import (
	"time"

	"github.com/google/uuid"
)

// Grading — один прогон проверки версии сабмишена по сценарию.
//
// Grading создаётся когда:
//   - студент сдаёт новую версию (через API/CLI)
//   - преподаватель запускает перепроверку вручную
//   - Scheduler создаёт плановую перепроверку
type Grading struct {
	// ID — уникальный идентификатор грейдинга.
	ID uuid.UUID `json:"id"`

	// SubmissionID — ссылка на проверяемый сабмишен.
	SubmissionID uuid.UUID `json:"submission_id"`

	// Version — версия сабмишена, которая проверяется.
	Version int `json:"version"`

	// Scenario — имя сценария проверки.
	Scenario string `json:"scenario"`

	// Status — текущий статус.
	Status GradingStatus `json:"status"`

	// Report — отчёт грейдера. Nil, пока проверка не завершена.
	Report *Report `json:"report,omitempty"`

	// StartedAt — время начала проверки.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст инфраструктурной ошибки при статусе ERRORED.
	Error string `json:"error,omitempty"`

	// IdempotencyKey — ключ идемпотентности для плановых перепроверок.
	// Например: "{schedule_id}_{next_due_at}".
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	// CreatedAt — время создания грейдинга.
	CreatedAt time.Time `json:"created_at"`
}

// Duration возвращает продолжительность проверки.
// Возвращает 0, если проверка ещё не завершена.
func (g *Grading) Duration() time.Duration {
	if g.StartedAt == nil || g.FinishedAt == nil {
		return 0
	}
	return g.FinishedAt.Sub(*g.StartedAt)
}

// IsFinished возвращает true, если грейдинг завершён.
func (g *Grading) IsFinished() bool {
	return g.Status.IsTerminal()
}

// MarkRunning переводит грейдинг в статус RUNNING.
func (g *Grading) MarkRunning() {
	now := time.Now()
	g.Status = GradingStatusRunning
	g.StartedAt = &now
}

// MarkGraded завершает грейдинг с отчётом.
// Статус определяется вердиктом отчёта: PASSED либо FAILED.
func (g *Grading) MarkGraded(report *Report) {
	now := time.Now()
	if report.Passed() {
		g.Status = GradingStatusPassed
	} else {
		g.Status = GradingStatusFailed
	}
	g.Report = report
	g.FinishedAt = &now
}

// MarkErrored переводит грейдинг в статус ERRORED с ошибкой.
func (g *Grading) MarkErrored(err string) {
	now := time.Now()
	g.Status = GradingStatusErrored
	g.FinishedAt = &now
	g.Error = err
}
