package engine

import (
	"errors"
	"math"
	"testing"
)

func TestCompile_Invalid(t *testing.T) {
	if _, err := Compile("3 +* x"); err == nil {
		t.Error("expected compile error for malformed expression")
	}
}

func TestExpression_Eval(t *testing.T) {
	tests := []struct {
		name string
		src  string
		deps map[string]float64
		want float64
	}{
		{
			name: "constant",
			src:  "42",
			deps: nil,
			want: 42,
		},
		{
			name: "linear",
			src:  "20 + 0.05 * solar_intensity - 0.02 * wind_speed",
			deps: map[string]float64{"solar_intensity": 100, "wind_speed": 50},
			want: 24,
		},
		{
			name: "power",
			src:  "(area * 4) ** 0.5",
			deps: map[string]float64{"area": 4},
			want: 4,
		},
		{
			name: "division",
			src:  "population / (yield + 1)",
			deps: map[string]float64{"population": 10, "yield": 4},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Compile(tt.src)
			if err != nil {
				t.Fatalf("unexpected compile error: %v", err)
			}

			got, err := expr.Eval(tt.deps)
			if err != nil {
				t.Fatalf("unexpected eval error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExpression_NonNumericResult(t *testing.T) {
	expr := MustCompile("x > 1")

	if _, err := expr.Eval(map[string]float64{"x": 2}); err == nil {
		t.Error("expected error for non-numeric result")
	}
}

func TestExpression_InEngine(t *testing.T) {
	order := []Step{
		{Output: "double", DependsOn: []string{"x"}, Formula: MustCompile("x * 2")},
		{Output: "sum", DependsOn: []string{"x", "double"}, Formula: MustCompile("x + double")},
	}

	eng, err := Build(order, Options{Independents: []string{"x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vars, err := eng.Compute(map[string]float64{"x": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vars["double"] != 6 || vars["sum"] != 9 {
		t.Errorf("unexpected results: %v", vars)
	}
}

func TestExpression_MissingParameterIsFormulaError(t *testing.T) {
	// Выражение ссылается на переменную, не объявленную в DependsOn:
	// движок подаёт формуле только объявленные зависимости, поэтому
	// govaluate падает, и ошибка оборачивается в ErrFormula.
	order := []Step{
		{Output: "a", DependsOn: []string{"x"}, Formula: MustCompile("x + undeclared")},
	}

	eng, err := Build(order, Options{Independents: []string{"x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = eng.Compute(map[string]float64{"x": 1})
	if !errors.Is(err, ErrFormula) {
		t.Errorf("expected ErrFormula, got %v", err)
	}
}

func TestExpression_Vars(t *testing.T) {
	expr := MustCompile("a + b * 2")

	vars := expr.Vars()
	seen := make(map[string]bool)
	for _, v := range vars {
		seen[v] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("expected vars a and b, got %v", vars)
	}
}
