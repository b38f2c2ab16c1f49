package engine

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// Expression — формула-выражение, скомпилированная из текста манифеста.
//
// Выражения пишутся студентами в манифесте сабмишена, например:
//
//	"20 + 0.05 * solar_intensity - 0.02 * wind_speed"
//
// Доступны арифметика, скобки, степень (**) и тернарный оператор
// govaluate. Идентификаторы в выражении — имена переменных из
// DependsOn шага.
type Expression struct {
	src  string
	expr *govaluate.EvaluableExpression
}

// Compile компилирует текст выражения.
// Ошибка компиляции — ошибка конфигурации сабмишена, не вычисления.
func Compile(src string) (*Expression, error) {
	expr, err := govaluate.NewEvaluableExpression(src)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", src, err)
	}
	return &Expression{src: src, expr: expr}, nil
}

// MustCompile компилирует выражение и паникует при ошибке.
// Используется для встроенных порядков вычислений и тестов.
func MustCompile(src string) *Expression {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Vars возвращает имена переменных, встречающихся в выражении.
// Удобно для сверки с объявленным DependsOn шага.
func (e *Expression) Vars() []string {
	return e.expr.Vars()
}

// String возвращает исходный текст выражения.
func (e *Expression) String() string {
	return e.src
}

// Eval реализует интерфейс Formula.
//
// Нечисловой результат (например, булев от сравнения) — ошибка:
// шаг обязан дать ровно одно числовое значение.
func (e *Expression) Eval(deps map[string]float64) (float64, error) {
	params := make(map[string]any, len(deps))
	for name, value := range deps {
		params[name] = value
	}

	result, err := e.expr.Evaluate(params)
	if err != nil {
		return 0, err
	}

	value, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("expression %q returned non-numeric value %v (%T)", e.src, result, result)
	}
	return value, nil
}
