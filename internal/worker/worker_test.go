package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Biome/internal/ecosim"
)

// --- Worker Tests ---

func TestNew_DefaultConfig(t *testing.T) {
	w := New(Config{})

	if w.pollInterval != defaultPollInterval {
		t.Errorf("expected default poll interval %v, got %v", defaultPollInterval, w.pollInterval)
	}
	if w.batchSize != defaultBatchSize {
		t.Errorf("expected default batch size %d, got %d", defaultBatchSize, w.batchSize)
	}
	if w.grader == nil {
		t.Error("grader should be initialized")
	}
}

func TestNew_CustomConfig(t *testing.T) {
	w := New(Config{
		PollInterval: 5 * time.Second,
		BatchSize:    25,
	})

	if w.pollInterval != 5*time.Second {
		t.Errorf("expected poll interval 5s, got %v", w.pollInterval)
	}
	if w.batchSize != 25 {
		t.Errorf("expected batch size 25, got %d", w.batchSize)
	}
}

func TestWorker_IsStopped(t *testing.T) {
	w := New(Config{})

	if w.IsStopped() {
		t.Error("should not be stopped initially")
	}

	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	if !w.IsStopped() {
		t.Error("should be stopped")
	}
}

// --- Scenario resolution ---

func TestResolveScenario_BuiltinBaseline(t *testing.T) {
	// Без БД baseline-сценарий встроенного задания доступен всегда
	w := New(Config{})

	scenario, err := w.resolveScenario(context.Background(), ecosim.Assignment, ecosim.ScenarioBaseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scenario.Name != ecosim.ScenarioBaseline {
		t.Errorf("expected scenario %q, got %q", ecosim.ScenarioBaseline, scenario.Name)
	}
	if len(scenario.Independents) != len(ecosim.Independents) {
		t.Errorf("expected %d independents, got %d", len(ecosim.Independents), len(scenario.Independents))
	}
	if len(scenario.Required) != len(ecosim.Derived) {
		t.Errorf("expected %d required outputs, got %d", len(ecosim.Derived), len(scenario.Required))
	}
}

func TestResolveScenario_Unknown(t *testing.T) {
	w := New(Config{})

	_, err := w.resolveScenario(context.Background(), "unknown-assignment", "baseline")
	if !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("expected ErrScenarioNotFound, got %v", err)
	}

	_, err = w.resolveScenario(context.Background(), ecosim.Assignment, "midterm")
	if !errors.Is(err, ErrScenarioNotFound) {
		t.Errorf("expected ErrScenarioNotFound for unknown scenario, got %v", err)
	}
}
