package submission

import "errors"

// Ошибки валидации манифеста.
var (
	// ErrEmptyManifest — манифест не содержит шагов.
	ErrEmptyManifest = errors.New("manifest has no evaluation order")

	// ErrEmptyOutput — шаг не имеет имени выходной переменной.
	ErrEmptyOutput = errors.New("step has empty output name")

	// ErrDuplicateOutput — несколько шагов с одним именем выхода.
	ErrDuplicateOutput = errors.New("duplicate output name")

	// ErrEmptyExpr — шаг не имеет выражения.
	ErrEmptyExpr = errors.New("step has empty expression")

	// ErrBadExpr — выражение шага не компилируется.
	ErrBadExpr = errors.New("step expression does not compile")

	// ErrUndeclaredVar — выражение использует переменную, не
	// объявленную в depends_on.
	ErrUndeclaredVar = errors.New("expression uses undeclared variable")

	// ErrUnknownFormat — формат манифеста не распознан.
	ErrUnknownFormat = errors.New("unknown manifest format")
)

// ManifestError — ошибка валидации манифеста с контекстом.
type ManifestError struct {
	Output  string // имя выходной переменной шага, где найдена ошибка
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ManifestError) Error() string {
	if e.Output != "" {
		return "step " + e.Output + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ManifestError) Unwrap() error {
	return e.Err
}

// NewManifestError создаёт новую ошибку манифеста.
func NewManifestError(output, message string, err error) *ManifestError {
	return &ManifestError{
		Output:  output,
		Message: message,
		Err:     err,
	}
}
