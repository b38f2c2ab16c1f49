package engine

import "errors"

// Ошибки конфигурации (обнаруживаются при сборке Engine).
var (
	// ErrEmptyOrder — порядок вычислений не содержит шагов.
	ErrEmptyOrder = errors.New("evaluation order has no steps")

	// ErrEmptyOutput — шаг не имеет имени выходной переменной.
	ErrEmptyOutput = errors.New("step has empty output name")

	// ErrNilFormula — шаг не имеет формулы.
	ErrNilFormula = errors.New("step has nil formula")

	// ErrDuplicateOutput — выходная переменная уже определена
	// (независимой переменной или более ранним шагом).
	ErrDuplicateOutput = errors.New("duplicate output variable")

	// ErrMissingDependency — шаг ссылается на переменную, которой нет
	// среди независимых переменных и выходов более ранних шагов.
	ErrMissingDependency = errors.New("missing dependency variable")

	// ErrSelfDependency — шаг зависит от собственного выхода.
	ErrSelfDependency = errors.New("step depends on its own output")

	// ErrCyclicDependency — обнаружен цикл при упорядочивании шагов.
	ErrCyclicDependency = errors.New("cyclic dependency detected")
)

// Ошибки вычисления (обнаруживаются в Compute).
var (
	// ErrFormula — формула шага завершилась ошибкой.
	ErrFormula = errors.New("formula evaluation failed")
)

// ConfigError — ошибка структуры порядка вычислений с контекстом.
//
// Возвращается из Build и Sort до выполнения какой-либо формулы.
type ConfigError struct {
	Output  string // имя выходной переменной шага, где найдена ошибка
	Message string // описание ошибки
	Err     error  // базовая ошибка (sentinel)
}

// Error реализует интерфейс error.
func (e *ConfigError) Error() string {
	if e.Output != "" {
		return "step " + e.Output + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError создаёт новую ошибку конфигурации.
func NewConfigError(output, message string, err error) *ConfigError {
	return &ConfigError{
		Output:  output,
		Message: message,
		Err:     err,
	}
}

// StepError — ошибка выполнения конкретного шага в Compute.
//
// Всегда несёт имя выходной переменной шага; для ErrMissingDependency
// дополнительно несёт имя отсутствующей зависимости. Это позволяет
// вызывающей стороне (грейдеру) точно назвать сломанную переменную.
type StepError struct {
	Output     string // имя выходной переменной шага
	Dependency string // имя отсутствующей зависимости (для ErrMissingDependency)
	Err        error  // базовая ошибка (sentinel или ошибка формулы)
}

// Error реализует интерфейс error.
func (e *StepError) Error() string {
	msg := "step " + e.Output + ": " + e.Err.Error()
	if e.Dependency != "" {
		msg += ": " + e.Dependency
	}
	return msg
}

// Unwrap возвращает базовую ошибку.
func (e *StepError) Unwrap() error {
	return e.Err
}
