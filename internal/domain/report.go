package domain

// CheckResult — результат одной проверки грейдера.
type CheckResult struct {
	// Name — имя проверки (например, "build", "variables").
	Name string `json:"name"`

	// Status — вердикт проверки.
	Status CheckStatus `json:"status"`

	// Details — человекочитаемая диагностика: какая переменная
	// сломана, какой зависимости не хватает и т.п. Пусто для
	// пройденных проверок.
	Details string `json:"details,omitempty"`
}

// Report — отчёт грейдера по одной версии сабмишена.
//
// Отчёт — это то, что студент видит как обратную связь: список
// проверок с вердиктами и диагностикой, плюс вычисленные переменные
// (при успешном compute) для самостоятельной сверки.
type Report struct {
	// Scenario — имя сценария, по которому шла проверка.
	Scenario string `json:"scenario"`

	// Checks — результаты проверок в порядке выполнения.
	Checks []CheckResult `json:"checks"`

	// Variables — итоговое пространство имён из Compute.
	// Nil, если вычисление не удалось.
	Variables map[string]float64 `json:"variables,omitempty"`
}

// Passed возвращает true, если все проверки пройдены.
// Пропущенные проверки считаются непройденными: они пропускаются
// только из-за провала предыдущих.
func (r *Report) Passed() bool {
	if len(r.Checks) == 0 {
		return false
	}
	for _, c := range r.Checks {
		if c.Status != CheckStatusPassed {
			return false
		}
	}
	return true
}

// FailedChecks возвращает непройденные проверки (включая пропущенные).
func (r *Report) FailedChecks() []CheckResult {
	var failed []CheckResult
	for _, c := range r.Checks {
		if c.Status != CheckStatusPassed {
			failed = append(failed, c)
		}
	}
	return failed
}
