package ecosim

import (
	"math"
	"testing"

	"github.com/shaiso/Biome/internal/engine"
	"github.com/shaiso/Biome/internal/submission"
)

func TestReferenceManifest_Valid(t *testing.T) {
	manifest := ReferenceManifest()

	if err := submission.Validate(&manifest); err != nil {
		t.Fatalf("reference manifest must validate: %v", err)
	}
	if len(manifest.Steps) != len(Derived) {
		t.Fatalf("expected %d steps, got %d", len(Derived), len(manifest.Steps))
	}
	for i, name := range Derived {
		if manifest.Steps[i].Output != name {
			t.Errorf("step %d: expected output %s, got %s", i, name, manifest.Steps[i].Output)
		}
	}
}

func TestReferenceManifest_ComputesBaseline(t *testing.T) {
	manifest := ReferenceManifest()
	scenario := BaselineScenario()

	steps, err := submission.CompileSteps(&manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eng, err := engine.Build(steps, engine.Options{Independents: scenario.IndependentNames()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vars, err := eng.Compute(scenario.Independents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(vars) != scenario.ExpectedTotal() {
		t.Errorf("expected %d variables, got %d", scenario.ExpectedTotal(), len(vars))
	}

	// Выборочные значения при нулевых входах.
	want := map[string]float64{
		"temperature":    20,
		"cloud_density":  0,
		"photosynthesis": 0,
		"oxygen":         21,
		"carbon_dioxide": 400,
		"asi":            84.0 / 5.0,
		"hunger":         0,
		"thirst":         0,
	}
	for name, expected := range want {
		got, ok := vars[name]
		if !ok {
			t.Errorf("variable %s missing", name)
			continue
		}
		if math.Abs(got-expected) > 1e-9 {
			t.Errorf("variable %s: expected %v, got %v", name, expected, got)
		}
	}
}

func TestReferenceManifest_NonzeroInputs(t *testing.T) {
	// Формулы определены и на ненулевых входах.
	manifest := ReferenceManifest()

	steps, err := submission.CompileSteps(&manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eng, err := engine.Build(steps, engine.Options{Independents: Independents})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vars, err := eng.Compute(map[string]float64{
		"solar_intensity": 800,
		"humidity":        60,
		"wind_speed":      12,
		"population":      1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range Derived {
		value, ok := vars[name]
		if !ok {
			t.Errorf("variable %s missing", name)
			continue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			t.Errorf("variable %s is not finite: %v", name, value)
		}
	}
}

func TestReferenceManifest_SurvivesShuffleWithSort(t *testing.T) {
	// Перемешанный референсный порядок восстанавливается Sort'ом.
	manifest := ReferenceManifest()

	steps, err := submission.CompileSteps(&manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shuffled := make([]engine.Step, len(steps))
	for i, step := range steps {
		shuffled[len(steps)-1-i] = step
	}

	ordered, err := engine.Sort(shuffled, Independents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eng, err := engine.Build(ordered, engine.Options{Independents: Independents})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := eng.Compute(BaselineScenario().Independents); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
