package engine

import (
	"errors"
	"fmt"
	"testing"
)

// constant возвращает формулу-константу.
func constant(v float64) Formula {
	return FormulaFunc(func(map[string]float64) (float64, error) {
		return v, nil
	})
}

// sum возвращает формулу-сумму всех зависимостей.
func sum() Formula {
	return FormulaFunc(func(deps map[string]float64) (float64, error) {
		var total float64
		for _, v := range deps {
			total += v
		}
		return total, nil
	})
}

func TestBuild_EmptyOrder(t *testing.T) {
	_, err := Build(nil, Options{})
	if !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestBuild_EmptyOutput(t *testing.T) {
	order := []Step{{Output: "", Formula: constant(1)}}

	_, err := Build(order, Options{})
	if !errors.Is(err, ErrEmptyOutput) {
		t.Errorf("expected ErrEmptyOutput, got %v", err)
	}
}

func TestBuild_NilFormula(t *testing.T) {
	order := []Step{{Output: "a"}}

	_, err := Build(order, Options{})
	if !errors.Is(err, ErrNilFormula) {
		t.Errorf("expected ErrNilFormula, got %v", err)
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if cfgErr.Output != "a" {
		t.Errorf("expected output a in error, got %q", cfgErr.Output)
	}
}

func TestBuild_DuplicateOutput(t *testing.T) {
	order := []Step{
		{Output: "a", Formula: constant(1)},
		{Output: "a", Formula: constant(2)},
	}

	_, err := Build(order, Options{})
	if !errors.Is(err, ErrDuplicateOutput) {
		t.Errorf("expected ErrDuplicateOutput, got %v", err)
	}
}

func TestBuild_OutputCollidesWithIndependent(t *testing.T) {
	order := []Step{{Output: "x", Formula: constant(1)}}

	_, err := Build(order, Options{Independents: []string{"x"}})
	if !errors.Is(err, ErrDuplicateOutput) {
		t.Errorf("expected ErrDuplicateOutput, got %v", err)
	}
}

func TestBuild_SelfDependency(t *testing.T) {
	order := []Step{{Output: "a", DependsOn: []string{"a"}, Formula: sum()}}

	_, err := Build(order, Options{})
	if !errors.Is(err, ErrSelfDependency) {
		t.Errorf("expected ErrSelfDependency, got %v", err)
	}
}

func TestBuild_EagerUnknownDependency(t *testing.T) {
	// При заданных Independents зависимость от выхода более позднего
	// шага отклоняется уже на сборке.
	order := []Step{
		{Output: "a", DependsOn: []string{"b"}, Formula: sum()},
		{Output: "b", DependsOn: []string{"x"}, Formula: sum()},
	}

	_, err := Build(order, Options{Independents: []string{"x"}})
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("expected ErrMissingDependency, got %v", err)
	}
}

func TestBuild_DeferredValidation(t *testing.T) {
	// Без Independents сборка проходит, а неразрешённая зависимость
	// всплывает в Compute.
	order := []Step{{Output: "a", DependsOn: []string{"missing"}, Formula: sum()}}

	eng, err := Build(order, Options{})
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}

	_, err = eng.Compute(map[string]float64{"x": 1})
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("expected ErrMissingDependency, got %v", err)
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	if stepErr.Output != "a" || stepErr.Dependency != "missing" {
		t.Errorf("expected step a / dependency missing, got %q / %q", stepErr.Output, stepErr.Dependency)
	}
}

func TestBuild_DoesNotEvaluateFormulas(t *testing.T) {
	evaluated := false
	order := []Step{{
		Output: "a",
		Formula: FormulaFunc(func(map[string]float64) (float64, error) {
			evaluated = true
			return 0, nil
		}),
	}}

	if _, err := Build(order, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluated {
		t.Error("Build must not evaluate formulas")
	}
}

func TestIsConfigError(t *testing.T) {
	_, buildErr := Build(nil, Options{})
	if !IsConfigError(buildErr) {
		t.Errorf("build failure must be a config error, got %v", buildErr)
	}

	order := []Step{{Output: "a", DependsOn: []string{"missing"}, Formula: sum()}}
	eng, err := Build(order, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, computeErr := eng.Compute(map[string]float64{})
	if IsConfigError(computeErr) {
		t.Errorf("compute failure is not a config error, got %v", computeErr)
	}
}

func TestCompute_Chain(t *testing.T) {
	// a = x + 1; b = a * 2; c = a + b
	order := []Step{
		{Output: "a", DependsOn: []string{"x"}, Formula: FormulaFunc(func(d map[string]float64) (float64, error) {
			return d["x"] + 1, nil
		})},
		{Output: "b", DependsOn: []string{"a"}, Formula: FormulaFunc(func(d map[string]float64) (float64, error) {
			return d["a"] * 2, nil
		})},
		{Output: "c", DependsOn: []string{"a", "b"}, Formula: sum()},
	}

	eng, err := Build(order, Options{Independents: []string{"x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vars, err := eng.Compute(map[string]float64{"x": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]float64{"x": 2, "a": 3, "b": 6, "c": 9}
	if len(vars) != len(expected) {
		t.Errorf("expected %d variables, got %d", len(expected), len(vars))
	}
	for name, want := range expected {
		if got, ok := vars[name]; !ok || got != want {
			t.Errorf("variable %s: expected %v, got %v (present=%v)", name, want, got, ok)
		}
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	order := []Step{{Output: "a", DependsOn: []string{"x"}, Formula: sum()}}

	eng, err := Build(order, Options{Independents: []string{"x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	indep := map[string]float64{"x": 5}
	vars, err := eng.Compute(indep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Входная map не изменена.
	if len(indep) != 1 || indep["x"] != 5 {
		t.Errorf("input map was mutated: %v", indep)
	}

	// Результат — другой объект: запись в него не видна во входе.
	vars["probe"] = 1
	if _, leaked := indep["probe"]; leaked {
		t.Error("result must be a distinct map from the input")
	}
}

func TestCompute_Cardinality(t *testing.T) {
	order := []Step{
		{Output: "a", Formula: constant(1)},
		{Output: "b", Formula: constant(2)},
		{Output: "c", Formula: constant(3)},
	}

	eng, err := Build(order, Options{Independents: []string{"x", "y"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vars, err := eng.Compute(map[string]float64{"x": 0, "y": 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// |independents| + |steps|
	if len(vars) != 5 {
		t.Errorf("expected 5 variables, got %d", len(vars))
	}
	for _, name := range []string{"x", "y", "a", "b", "c"} {
		if _, ok := vars[name]; !ok {
			t.Errorf("variable %s missing from result", name)
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	order := []Step{
		{Output: "a", DependsOn: []string{"x", "y"}, Formula: sum()},
		{Output: "b", DependsOn: []string{"a", "x"}, Formula: sum()},
	}

	eng, err := Build(order, Options{Independents: []string{"x", "y"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	indep := map[string]float64{"x": 1.5, "y": 2.5}

	first, err := eng.Compute(indep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := eng.Compute(indep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result sizes differ: %d vs %d", len(first), len(second))
	}
	for name, v := range first {
		if second[name] != v {
			t.Errorf("variable %s differs between calls: %v vs %v", name, v, second[name])
		}
	}
}

func TestCompute_NoStateBetweenCalls(t *testing.T) {
	order := []Step{{Output: "a", DependsOn: []string{"x"}, Formula: sum()}}

	eng, err := Build(order, Options{Independents: []string{"x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := eng.Compute(map[string]float64{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := eng.Compute(map[string]float64{"x": 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first["a"] != 1 || second["a"] != 10 {
		t.Errorf("results leaked between calls: %v, %v", first["a"], second["a"])
	}
}

func TestCompute_OrderViolation(t *testing.T) {
	// Шаг a зависит от выхода более позднего шага b: при отложенной
	// валидации это обязано падать с ErrMissingDependency, а не
	// молча использовать устаревшее значение.
	order := []Step{
		{Output: "a", DependsOn: []string{"b"}, Formula: sum()},
		{Output: "b", DependsOn: []string{"x"}, Formula: sum()},
	}

	eng, err := Build(order, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vars, err := eng.Compute(map[string]float64{"x": 1})
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("expected ErrMissingDependency, got %v", err)
	}
	if vars != nil {
		t.Error("failed compute must not return a partial namespace")
	}
}

func TestCompute_FormulaError(t *testing.T) {
	boom := errors.New("division by zero")
	order := []Step{
		{Output: "ok", Formula: constant(1)},
		{Output: "broken", Formula: FormulaFunc(func(map[string]float64) (float64, error) {
			return 0, boom
		})},
	}

	eng, err := Build(order, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vars, err := eng.Compute(map[string]float64{})
	if !errors.Is(err, ErrFormula) {
		t.Errorf("expected ErrFormula, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("formula error must not be swallowed, got %v", err)
	}
	if vars != nil {
		t.Error("failed compute must not return a partial namespace")
	}

	// Ошибка несёт имя сломавшегося шага.
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	if stepErr.Output != "broken" {
		t.Errorf("expected step broken in error, got %q", stepErr.Output)
	}
}

func TestCompute_Concurrent(t *testing.T) {
	order := []Step{
		{Output: "a", DependsOn: []string{"x"}, Formula: sum()},
		{Output: "b", DependsOn: []string{"a", "x"}, Formula: sum()},
	}

	eng, err := Build(order, Options{Independents: []string{"x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan error, 16)
	for g := 0; g < 16; g++ {
		go func(g int) {
			x := float64(g)
			vars, err := eng.Compute(map[string]float64{"x": x})
			if err != nil {
				done <- err
				return
			}
			// a = x, b = a + x = 2x
			if vars["b"] != 2*x {
				done <- fmt.Errorf("goroutine %d: expected b=%v, got %v", g, 2*x, vars["b"])
				return
			}
			done <- nil
		}(g)
	}

	for g := 0; g < 16; g++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}

func TestSort_OrdersSteps(t *testing.T) {
	// Подаём шаги в заведомо неверном порядке.
	steps := []Step{
		{Output: "c", DependsOn: []string{"a", "b"}, Formula: sum()},
		{Output: "b", DependsOn: []string{"a"}, Formula: sum()},
		{Output: "a", DependsOn: []string{"x"}, Formula: sum()},
	}

	order, err := Sort(steps, []string{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	positions := make(map[string]int)
	for i, step := range order {
		positions[step.Output] = i
	}

	if positions["a"] > positions["b"] {
		t.Error("a should come before b")
	}
	if positions["b"] > positions["c"] {
		t.Error("b should come before c")
	}

	// Упорядоченный список собирается и считается.
	eng, err := Build(order, Options{Independents: []string{"x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vars, err := eng.Compute(map[string]float64{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// a = x = 1, b = a = 1, c = a + b = 2
	if vars["c"] != 2 {
		t.Errorf("expected c=2, got %v", vars["c"])
	}
}

func TestSort_CyclicDependency(t *testing.T) {
	steps := []Step{
		{Output: "a", DependsOn: []string{"c"}, Formula: sum()},
		{Output: "b", DependsOn: []string{"a"}, Formula: sum()},
		{Output: "c", DependsOn: []string{"b"}, Formula: sum()},
	}

	_, err := Sort(steps, nil)
	if !errors.Is(err, ErrCyclicDependency) {
		t.Errorf("expected ErrCyclicDependency, got %v", err)
	}
}

func TestSort_UnknownDependency(t *testing.T) {
	steps := []Step{{Output: "a", DependsOn: []string{"ghost"}, Formula: sum()}}

	_, err := Sort(steps, []string{"x"})
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("expected ErrMissingDependency, got %v", err)
	}
}

func TestSort_Deterministic(t *testing.T) {
	steps := []Step{
		{Output: "a", Formula: constant(1)},
		{Output: "b", Formula: constant(2)},
		{Output: "c", Formula: constant(3)},
	}

	first, err := Sort(steps, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Sort(steps, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first {
		if first[i].Output != second[i].Output {
			t.Errorf("position %d differs between runs: %s vs %s", i, first[i].Output, second[i].Output)
		}
	}
}
