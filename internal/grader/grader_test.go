package grader

import (
	"context"
	"strings"
	"testing"

	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/ecosim"
)

// findCheck возвращает результат проверки по имени.
func findCheck(t *testing.T, report *domain.Report, name string) domain.CheckResult {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s not found in report", name)
	return domain.CheckResult{}
}

func TestGrade_ReferenceManifestPasses(t *testing.T) {
	manifest := ecosim.ReferenceManifest()
	scenario := ecosim.BaselineScenario()

	report := New(Config{}).Grade(context.Background(), &manifest, scenario)

	if !report.Passed() {
		t.Fatalf("reference manifest must pass, failed checks: %v", report.FailedChecks())
	}

	// 4 независимые + 18 производных = 22 переменные.
	if len(report.Variables) != 22 {
		t.Errorf("expected 22 variables, got %d", len(report.Variables))
	}
	for _, name := range ecosim.Derived {
		if _, ok := report.Variables[name]; !ok {
			t.Errorf("variable %s not found in report", name)
		}
	}
}

func TestGrade_EmptyManifest(t *testing.T) {
	scenario := ecosim.BaselineScenario()

	report := New(Config{}).Grade(context.Background(), &domain.Manifest{}, scenario)

	if report.Passed() {
		t.Fatal("empty manifest must not pass")
	}

	if c := findCheck(t, report, "manifest"); c.Status != domain.CheckStatusFailed {
		t.Errorf("manifest check: expected FAILED, got %s", c.Status)
	}

	// Зависимые проверки пропускаются, а не падают.
	for _, name := range []string{"build", "compute", "variables", "cardinality", "determinism"} {
		if c := findCheck(t, report, name); c.Status != domain.CheckStatusSkipped {
			t.Errorf("%s check: expected SKIPPED, got %s", name, c.Status)
		}
	}
}

func TestGrade_OrderViolation(t *testing.T) {
	// thirst объявлен раньше water_resources — нарушение контракта
	// «зависимость до использования».
	manifest := &domain.Manifest{Steps: []domain.StepSpec{
		{Output: "thirst", DependsOn: []string{"population", "water_resources"},
			Expr: "population / (water_resources + 1)"},
		{Output: "water_resources", DependsOn: []string{"humidity"}, Expr: "humidity"},
	}}
	scenario := ecosim.BaselineScenario()

	report := New(Config{}).Grade(context.Background(), manifest, scenario)

	c := findCheck(t, report, "build")
	if c.Status != domain.CheckStatusFailed {
		t.Fatalf("build check: expected FAILED, got %s", c.Status)
	}
	// Диагностика называет сломанную переменную.
	if !strings.Contains(c.Details, "thirst") {
		t.Errorf("details must name the broken variable, got %q", c.Details)
	}
}

func TestGrade_DuplicateOutput(t *testing.T) {
	// Выход шага совпадает с независимой переменной сценария.
	manifest := &domain.Manifest{Steps: []domain.StepSpec{
		{Output: "humidity", Expr: "1"},
	}}
	scenario := ecosim.BaselineScenario()

	report := New(Config{}).Grade(context.Background(), manifest, scenario)

	c := findCheck(t, report, "build")
	if c.Status != domain.CheckStatusFailed {
		t.Fatalf("build check: expected FAILED, got %s", c.Status)
	}
	if !strings.Contains(c.Details, "humidity") {
		t.Errorf("details must name the colliding variable, got %q", c.Details)
	}
	// Ошибка сборки подаётся как проблема порядка вычислений.
	if !strings.Contains(c.Details, "invalid evaluation order") {
		t.Errorf("details must flag the evaluation order, got %q", c.Details)
	}
}

func TestGrade_MissingRequiredVariable(t *testing.T) {
	// Валидный, но неполный манифест: вычислена только temperature.
	manifest := &domain.Manifest{Steps: []domain.StepSpec{
		{Output: "temperature", DependsOn: []string{"solar_intensity"},
			Expr: "20 + 0.05 * solar_intensity"},
	}}
	scenario := ecosim.BaselineScenario()

	report := New(Config{}).Grade(context.Background(), manifest, scenario)

	if report.Passed() {
		t.Fatal("incomplete manifest must not pass")
	}

	if c := findCheck(t, report, "compute"); c.Status != domain.CheckStatusPassed {
		t.Errorf("compute check: expected PASSED, got %s (%s)", c.Status, c.Details)
	}

	c := findCheck(t, report, "variables")
	if c.Status != domain.CheckStatusFailed {
		t.Fatalf("variables check: expected FAILED, got %s", c.Status)
	}
	if !strings.Contains(c.Details, "cloud_density") {
		t.Errorf("details must name a missing variable, got %q", c.Details)
	}
}

func TestGrade_FormulaFailureNamesVariable(t *testing.T) {
	// Выражение ссылается на переменную вне depends_on: сборка
	// проходит (зависимости структурно корректны), а формула падает
	// в Compute — диагностика обязана назвать сломанную переменную.
	manifest := &domain.Manifest{Steps: []domain.StepSpec{
		{Output: "broken", DependsOn: []string{"solar_intensity"},
			Expr: "solar_intensity + ghost"},
	}}
	scenario := ecosim.BaselineScenario()

	report := New(Config{}).Grade(context.Background(), manifest, scenario)

	if c := findCheck(t, report, "build"); c.Status != domain.CheckStatusPassed {
		t.Fatalf("build check: expected PASSED, got %s (%s)", c.Status, c.Details)
	}

	c := findCheck(t, report, "compute")
	if c.Status != domain.CheckStatusFailed {
		t.Fatalf("compute check: expected FAILED, got %s", c.Status)
	}
	if !strings.Contains(c.Details, "broken") {
		t.Errorf("details must name the broken variable, got %q", c.Details)
	}
}

func TestGrade_ChecksOrder(t *testing.T) {
	registry := NewRegistry()

	expected := []string{"manifest", "build", "compute", "variables", "cardinality", "determinism"}
	names := registry.Names()

	if len(names) != len(expected) {
		t.Fatalf("expected %d checks, got %d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("position %d: expected %s, got %s", i, name, names[i])
		}
	}
}

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.Get("build"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := registry.Get("nope"); err == nil {
		t.Error("expected error for unknown check")
	}
}
