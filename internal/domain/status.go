package domain

// GradingStatus — статус проверки сабмишена.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → PASSED
//	                  ↘ FAILED  (проверки не пройдены)
//	                  ↘ ERRORED (инфраструктурный сбой грейдера)
type GradingStatus string

const (
	// GradingStatusPending — проверка создана, но ещё не началась.
	GradingStatusPending GradingStatus = "PENDING"

	// GradingStatusRunning — проверка выполняется воркером.
	GradingStatusRunning GradingStatus = "RUNNING"

	// GradingStatusPassed — все проверки пройдены.
	GradingStatusPassed GradingStatus = "PASSED"

	// GradingStatusFailed — хотя бы одна проверка не пройдена.
	// Это вердикт по сабмишену, а не сбой грейдера.
	GradingStatusFailed GradingStatus = "FAILED"

	// GradingStatusErrored — грейдер не смог завершить проверку
	// (сбой БД, потерянная версия и т.п.).
	GradingStatusErrored GradingStatus = "ERRORED"
)

// IsTerminal возвращает true, если статус финальный.
func (s GradingStatus) IsTerminal() bool {
	switch s {
	case GradingStatusPassed, GradingStatusFailed, GradingStatusErrored:
		return true
	default:
		return false
	}
}

// CheckStatus — статус отдельной проверки внутри грейдинга.
type CheckStatus string

const (
	// CheckStatusPassed — проверка пройдена.
	CheckStatusPassed CheckStatus = "PASSED"

	// CheckStatusFailed — проверка не пройдена.
	CheckStatusFailed CheckStatus = "FAILED"

	// CheckStatusSkipped — проверка пропущена, потому что не
	// пройдена одна из предыдущих (например, compute без build).
	CheckStatusSkipped CheckStatus = "SKIPPED"
)
