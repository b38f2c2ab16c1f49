package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission — сабмишен студента для конкретного задания.
//
// Сабмишен — это «карточка» работы: кто сдал и по какому заданию.
// Содержимое работы живёт в версиях (SubmissionVersion): каждая
// пересдача создаёт новую версию с новым манифестом.
type Submission struct {
	// ID — уникальный идентификатор сабмишена.
	ID uuid.UUID `json:"id"`

	// Student — идентификатор студента (логин или e-mail).
	Student string `json:"student"`

	// Assignment — имя задания (например, "ecosystem-sim").
	Assignment string `json:"assignment"`

	// IsActive — флаг активности. Неактивные сабмишены не участвуют
	// в плановых перепроверках.
	IsActive bool `json:"is_active"`

	// CreatedAt — время создания сабмишена.
	CreatedAt time.Time `json:"created_at"`
}

// SubmissionVersion — версия сабмишена с конкретным манифестом.
//
// Версионирование позволяет:
//   - хранить историю пересдач
//   - перепроверять старые версии
//   - сравнивать отчёты между версиями
type SubmissionVersion struct {
	// SubmissionID — ссылка на родительский сабмишен.
	SubmissionID uuid.UUID `json:"submission_id"`

	// Version — номер версии (1, 2, 3, ...).
	// Автоинкремент при каждой пересдаче.
	Version int `json:"version"`

	// Manifest — порядок вычислений, сданный студентом.
	Manifest Manifest `json:"manifest"`

	// CreatedAt — время создания версии.
	CreatedAt time.Time `json:"created_at"`
}
