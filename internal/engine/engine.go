package engine

import (
	"errors"
	"fmt"
)

// Formula — вычислимое тело шага.
//
// Формула получает значения только своих объявленных зависимостей
// и возвращает одно числовое значение. Реализации: Expression
// (govaluate-выражение из манифеста) и FormulaFunc (произвольная
// Go-функция, в основном для тестов и встроенных сценариев).
type Formula interface {
	Eval(deps map[string]float64) (float64, error)
}

// FormulaFunc — адаптер функции к интерфейсу Formula.
type FormulaFunc func(deps map[string]float64) (float64, error)

// Eval реализует интерфейс Formula.
func (f FormulaFunc) Eval(deps map[string]float64) (float64, error) {
	return f(deps)
}

// Step — один шаг порядка вычислений.
//
// Шаг определяет ровно одну производную переменную Output из значений
// переменных DependsOn. После сборки Engine шаги неизменяемы.
type Step struct {
	// Output — имя вычисляемой переменной. Уникально в рамках порядка.
	Output string

	// DependsOn — имена переменных, которые нужны формуле.
	DependsOn []string

	// Formula — вычислимое тело шага.
	Formula Formula
}

// Options — параметры сборки Engine.
type Options struct {
	// Independents — имена независимых переменных, которые будут
	// поданы в Compute. Если список задан, Build эагерно проверяет,
	// что каждая зависимость каждого шага разрешима из независимых
	// переменных либо выходов строго более ранних шагов.
	//
	// Если список пуст, проверка зависимостей откладывается до
	// Compute (первая неразрешённая зависимость даст StepError).
	Independents []string
}

// Engine — вычислитель порядка шагов.
//
// Engine хранит собственную копию проверенного списка шагов и не имеет
// изменяемого состояния между вызовами: Compute можно вызывать
// многократно и конкурентно, каждый вызов работает со своим рабочим
// пространством имён.
type Engine struct {
	steps        []Step
	independents map[string]bool
}

// Build собирает Engine из порядка вычислений.
//
// Выполняет структурную валидацию (ни одна формула не вычисляется):
//   - порядок не пуст
//   - каждый шаг имеет имя выхода и формулу
//   - имена выходов уникальны и не совпадают с независимыми переменными
//   - шаг не зависит от собственного выхода
//   - (при заданных opts.Independents) каждая зависимость известна
//     на момент выполнения шага
//
// Все ошибки — *ConfigError, базовые sentinel'ы проверяются через errors.Is.
func Build(order []Step, opts Options) (*Engine, error) {
	if len(order) == 0 {
		return nil, NewConfigError("", "evaluation order has no steps", ErrEmptyOrder)
	}

	independents := make(map[string]bool, len(opts.Independents))
	for _, name := range opts.Independents {
		independents[name] = true
	}

	// known — переменные, доступные шагу на момент его выполнения.
	// Заполняется независимыми переменными и растёт на один выход за шаг.
	known := make(map[string]bool, len(independents)+len(order))
	for name := range independents {
		known[name] = true
	}

	eager := len(opts.Independents) > 0

	for i := range order {
		step := &order[i]

		if step.Output == "" {
			return nil, NewConfigError("", fmt.Sprintf("step %d has empty output name", i), ErrEmptyOutput)
		}
		if step.Formula == nil {
			return nil, NewConfigError(step.Output, "step has nil formula", ErrNilFormula)
		}
		if known[step.Output] {
			return nil, NewConfigError(step.Output,
				fmt.Sprintf("duplicate output variable: %s", step.Output), ErrDuplicateOutput)
		}

		for _, dep := range step.DependsOn {
			if dep == step.Output {
				return nil, NewConfigError(step.Output,
					"step depends on its own output", ErrSelfDependency)
			}
			if eager && !known[dep] {
				return nil, NewConfigError(step.Output,
					fmt.Sprintf("unknown dependency: %s", dep), ErrMissingDependency)
			}
		}

		known[step.Output] = true
	}

	// Engine получает собственную копию шагов: изменение слайса
	// вызывающей стороной после Build не должно влиять на вычисления.
	steps := make([]Step, len(order))
	copy(steps, order)
	for i := range steps {
		steps[i].DependsOn = append([]string(nil), steps[i].DependsOn...)
	}

	return &Engine{
		steps:        steps,
		independents: independents,
	}, nil
}

// Len возвращает количество шагов.
func (e *Engine) Len() int {
	return len(e.steps)
}

// Outputs возвращает имена выходных переменных в порядке вычисления.
func (e *Engine) Outputs() []string {
	outputs := make([]string, len(e.steps))
	for i := range e.steps {
		outputs[i] = e.steps[i].Output
	}
	return outputs
}

// Compute выполняет все шаги по порядку и возвращает полное
// пространство имён: независимые переменные плюс ровно одна запись
// на каждый шаг.
//
// Контракт:
//   - indep не изменяется и не сохраняется; значения копируются
//     в свежее рабочее пространство имён
//   - результат — всегда новый объект, даже при совпадении значений
//   - при любой ошибке возвращается nil — частичный результат
//     не выдаётся
//
// Ошибки — *StepError с именем сломавшегося шага:
//   - ErrMissingDependency — зависимость отсутствует в рабочем
//     пространстве (опечатка либо нарушение порядка)
//   - ErrDuplicateOutput — выход шага уже определён
//   - ErrFormula — формула завершилась ошибкой (оборачивается,
//     никогда не глотается)
func (e *Engine) Compute(indep map[string]float64) (map[string]float64, error) {
	// Рабочее пространство имён: сначала независимые переменные.
	vars := make(map[string]float64, len(indep)+len(e.steps))
	for name, value := range indep {
		vars[name] = value
	}

	for i := range e.steps {
		step := &e.steps[i]

		if _, exists := vars[step.Output]; exists {
			return nil, &StepError{Output: step.Output, Err: ErrDuplicateOutput}
		}

		deps := make(map[string]float64, len(step.DependsOn))
		for _, dep := range step.DependsOn {
			value, ok := vars[dep]
			if !ok {
				return nil, &StepError{Output: step.Output, Dependency: dep, Err: ErrMissingDependency}
			}
			deps[dep] = value
		}

		result, err := step.Formula.Eval(deps)
		if err != nil {
			return nil, &StepError{Output: step.Output, Err: fmt.Errorf("%w: %w", ErrFormula, err)}
		}

		vars[step.Output] = result
	}

	return vars, nil
}

// Sort упорядочивает несортированный набор шагов топологически
// (алгоритм Кана) относительно независимых переменных.
//
// Compute никогда не переупорядочивает шаги сам — Sort это явная
// утилита для вызывающих сторон, которым порядок неизвестен.
// При цикле возвращает *ConfigError с ErrCyclicDependency, при
// ссылке на неизвестную переменную — с ErrMissingDependency.
// Для детерминизма шаги с нулевой степенью входа берутся в порядке
// появления в исходном списке.
func Sort(steps []Step, independents []string) ([]Step, error) {
	if len(steps) == 0 {
		return nil, NewConfigError("", "evaluation order has no steps", ErrEmptyOrder)
	}

	known := make(map[string]bool, len(independents))
	for _, name := range independents {
		known[name] = true
	}

	byOutput := make(map[string]int, len(steps))
	for i := range steps {
		step := &steps[i]
		if step.Output == "" {
			return nil, NewConfigError("", fmt.Sprintf("step %d has empty output name", i), ErrEmptyOutput)
		}
		if known[step.Output] {
			return nil, NewConfigError(step.Output,
				fmt.Sprintf("duplicate output variable: %s", step.Output), ErrDuplicateOutput)
		}
		if _, dup := byOutput[step.Output]; dup {
			return nil, NewConfigError(step.Output,
				fmt.Sprintf("duplicate output variable: %s", step.Output), ErrDuplicateOutput)
		}
		byOutput[step.Output] = i
	}

	// Степень входа: количество зависимостей шага, вычисляемых
	// другими шагами (независимые переменные рёбер не дают).
	inDegree := make([]int, len(steps))
	dependents := make([][]int, len(steps))

	for i := range steps {
		step := &steps[i]
		for _, dep := range step.DependsOn {
			if dep == step.Output {
				return nil, NewConfigError(step.Output,
					"step depends on its own output", ErrSelfDependency)
			}
			if known[dep] {
				continue
			}
			j, ok := byOutput[dep]
			if !ok {
				return nil, NewConfigError(step.Output,
					fmt.Sprintf("unknown dependency: %s", dep), ErrMissingDependency)
			}
			inDegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	queue := make([]int, 0, len(steps))
	for i := range steps {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]Step, 0, len(steps))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, steps[i])

		for _, j := range dependents[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	// Если упорядочены не все шаги — есть цикл.
	if len(order) != len(steps) {
		return nil, NewConfigError("", "cyclic dependency detected", ErrCyclicDependency)
	}

	return order, nil
}

// IsConfigError проверяет, является ли ошибка ошибкой конфигурации.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
