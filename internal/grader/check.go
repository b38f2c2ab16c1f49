package grader

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/engine"
)

// Ошибки грейдера.
var (
	// ErrUnknownCheck — проверка не найдена в реестре.
	ErrUnknownCheck = errors.New("check not found")
)

// Case — состояние одной проверяемой пары (манифест, сценарий).
//
// Проверки выполняются по порядку и передают друг другу результаты
// через Case: build кладёт собранный движок, compute — вычисленные
// переменные. Проверка, чья предпосылка не выполнена (nil Engine,
// nil Vars), возвращает SKIPPED.
type Case struct {
	// Manifest — проверяемый порядок вычислений.
	Manifest *domain.Manifest

	// Scenario — сценарий проверки.
	Scenario domain.Scenario

	// Steps — скомпилированные шаги (заполняет проверка build).
	Steps []engine.Step

	// Engine — собранный движок (заполняет проверка build).
	Engine *engine.Engine

	// Vars — результат Compute (заполняет проверка compute).
	Vars map[string]float64
}

// Check — одна именованная проверка сабмишена.
//
// Реализации не возвращают error: любой вердикт по сабмишену, включая
// «сломан», — это валидный результат проверки, а не сбой грейдера.
type Check interface {
	// Name возвращает имя проверки.
	Name() string

	// Run выполняет проверку над Case.
	Run(ctx context.Context, c *Case) domain.CheckResult
}

// Registry — реестр проверок по имени.
type Registry struct {
	checks map[string]Check
	order  []string
}

// NewRegistry создаёт реестр со стандартным набором проверок.
//
// Порядок регистрации — порядок выполнения:
// manifest → build → compute → variables → cardinality → determinism.
func NewRegistry() *Registry {
	r := &Registry{checks: make(map[string]Check)}
	r.Register(&manifestCheck{})
	r.Register(&buildCheck{})
	r.Register(&computeCheck{})
	r.Register(&variablesCheck{})
	r.Register(&cardinalityCheck{})
	r.Register(&determinismCheck{})
	return r
}

// Register добавляет проверку в конец порядка выполнения.
// Повторная регистрация имени заменяет проверку на месте.
func (r *Registry) Register(check Check) {
	name := check.Name()
	if _, exists := r.checks[name]; !exists {
		r.order = append(r.order, name)
	}
	r.checks[name] = check
}

// Get возвращает проверку по имени.
func (r *Registry) Get(name string) (Check, error) {
	check, ok := r.checks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, name)
	}
	return check, nil
}

// Names возвращает имена проверок в порядке выполнения.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// passed — пройденная проверка.
func passed(name string) domain.CheckResult {
	return domain.CheckResult{Name: name, Status: domain.CheckStatusPassed}
}

// failed — непройденная проверка с диагностикой.
func failed(name, details string) domain.CheckResult {
	return domain.CheckResult{Name: name, Status: domain.CheckStatusFailed, Details: details}
}

// skipped — пропущенная проверка.
func skipped(name, details string) domain.CheckResult {
	return domain.CheckResult{Name: name, Status: domain.CheckStatusSkipped, Details: details}
}
