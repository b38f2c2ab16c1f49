package worker

import "errors"

// Ошибки воркера.
var (
	// ErrGradingNotFound — грейдинг не найден в БД.
	ErrGradingNotFound = errors.New("grading not found")

	// ErrGradingNotPending — грейдинг не в статусе PENDING.
	ErrGradingNotPending = errors.New("grading is not in PENDING status")

	// ErrScenarioNotFound — сценарий проверки не найден.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrVersionNotFound — версия сабмишена не найдена.
	ErrVersionNotFound = errors.New("submission version not found")

	// ErrWorkerStopped — воркер остановлен.
	ErrWorkerStopped = errors.New("worker stopped")
)
