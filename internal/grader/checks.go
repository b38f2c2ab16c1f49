package grader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/engine"
	"github.com/shaiso/Biome/internal/submission"
)

// manifestCheck — порядок вычислений присутствует и структурно валиден.
type manifestCheck struct{}

func (manifestCheck) Name() string { return "manifest" }

func (manifestCheck) Run(_ context.Context, c *Case) domain.CheckResult {
	if c.Manifest == nil || len(c.Manifest.Steps) == 0 {
		return failed("manifest", "evaluation_order not found in submission")
	}
	if err := submission.Validate(c.Manifest); err != nil {
		return failed("manifest", err.Error())
	}
	return passed("manifest")
}

// buildCheck — движок собирается из манифеста.
//
// Здесь всплывают ошибки конфигурации: дубликаты выходов, коллизии с
// независимыми переменными сценария, зависимости от выходов более
// поздних шагов.
type buildCheck struct{}

func (buildCheck) Name() string { return "build" }

func (buildCheck) Run(_ context.Context, c *Case) domain.CheckResult {
	if c.Manifest == nil || len(c.Manifest.Steps) == 0 {
		return skipped("build", "no evaluation order to build")
	}

	steps, err := submission.CompileSteps(c.Manifest)
	if err != nil {
		return failed("build", err.Error())
	}

	eng, err := engine.Build(steps, engine.Options{
		Independents: c.Scenario.IndependentNames(),
	})
	if err != nil {
		return failed("build", describeEngineError(err))
	}

	c.Steps = steps
	c.Engine = eng
	return passed("build")
}

// computeCheck — Compute завершается без ошибки, не изменяет входную
// map и возвращает отдельный объект.
type computeCheck struct{}

func (computeCheck) Name() string { return "compute" }

func (computeCheck) Run(_ context.Context, c *Case) domain.CheckResult {
	if c.Engine == nil {
		return skipped("compute", "engine was not built")
	}

	// Копия входа для сверки после вызова.
	indep := make(map[string]float64, len(c.Scenario.Independents))
	for name, value := range c.Scenario.Independents {
		indep[name] = value
	}

	vars, err := c.Engine.Compute(indep)
	if err != nil {
		return failed("compute", describeEngineError(err))
	}
	if vars == nil {
		return failed("compute", "no variables computed")
	}

	// Вход не должен быть изменён.
	if len(indep) != len(c.Scenario.Independents) {
		return failed("compute", "independent variables map was mutated")
	}
	for name, want := range c.Scenario.Independents {
		if got, ok := indep[name]; !ok || got != want {
			return failed("compute", fmt.Sprintf("independent variable %s was mutated", name))
		}
	}

	// Результат — другой объект: запись-зонд не должна протечь во вход.
	vars["__probe__"] = 0
	if _, leaked := indep["__probe__"]; leaked {
		delete(vars, "__probe__")
		return failed("compute", "computed variables must not alias the input map")
	}
	delete(vars, "__probe__")

	c.Vars = vars
	return passed("compute")
}

// variablesCheck — все обязательные производные переменные вычислены.
type variablesCheck struct{}

func (variablesCheck) Name() string { return "variables" }

func (variablesCheck) Run(_ context.Context, c *Case) domain.CheckResult {
	if c.Vars == nil {
		return skipped("variables", "no computed variables")
	}

	var missing []string
	for _, name := range c.Scenario.Required {
		if _, ok := c.Vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return failed("variables",
			fmt.Sprintf("not found in computed variables: %s", strings.Join(missing, ", ")))
	}
	return passed("variables")
}

// cardinalityCheck — мощность результата равна
// |независимые| + |шаги|: ничего не потеряно и не задвоено.
type cardinalityCheck struct{}

func (cardinalityCheck) Name() string { return "cardinality" }

func (cardinalityCheck) Run(_ context.Context, c *Case) domain.CheckResult {
	if c.Vars == nil {
		return skipped("cardinality", "no computed variables")
	}

	expected := len(c.Scenario.Independents) + len(c.Steps)
	if len(c.Vars) != expected {
		return failed("cardinality",
			fmt.Sprintf("incorrect number of variables computed: expected %d, got %d",
				expected, len(c.Vars)))
	}
	return passed("cardinality")
}

// determinismCheck — повторный Compute с теми же входами даёт тот же
// результат, значение в значение.
type determinismCheck struct{}

func (determinismCheck) Name() string { return "determinism" }

func (determinismCheck) Run(_ context.Context, c *Case) domain.CheckResult {
	if c.Engine == nil || c.Vars == nil {
		return skipped("determinism", "nothing to recompute")
	}

	again, err := c.Engine.Compute(c.Scenario.Independents)
	if err != nil {
		return failed("determinism", fmt.Sprintf("second compute failed: %v", err))
	}
	if len(again) != len(c.Vars) {
		return failed("determinism",
			fmt.Sprintf("result sizes differ between calls: %d vs %d", len(c.Vars), len(again)))
	}
	for name, value := range c.Vars {
		if again[name] != value {
			return failed("determinism",
				fmt.Sprintf("variable %s differs between calls: %v vs %v", name, value, again[name]))
		}
	}
	return passed("determinism")
}

// describeEngineError переводит ошибку движка в диагностику для
// студента, сохраняя имя сломанной переменной.
func describeEngineError(err error) string {
	var stepErr *engine.StepError
	if errors.As(err, &stepErr) {
		switch {
		case errors.Is(err, engine.ErrMissingDependency):
			return fmt.Sprintf("variable %s: dependency %s is not available at this step",
				stepErr.Output, stepErr.Dependency)
		case errors.Is(err, engine.ErrDuplicateOutput):
			return fmt.Sprintf("variable %s is already defined", stepErr.Output)
		case errors.Is(err, engine.ErrFormula):
			return fmt.Sprintf("formula for variable %s failed: %v", stepErr.Output, stepErr.Err)
		}
	}

	// ConfigError уже несёт имя переменной в тексте.
	if engine.IsConfigError(err) {
		return fmt.Sprintf("invalid evaluation order: %v", err)
	}

	return err.Error()
}
