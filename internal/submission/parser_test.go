package submission

import (
	"errors"
	"testing"

	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/ecosim"
)

const jsonManifest = `{
  "assignment": "ecosystem-sim",
  "evaluation_order": [
    {"output": "temperature", "depends_on": ["solar_intensity"], "expr": "20 + 0.05 * solar_intensity"},
    {"output": "uv_index", "depends_on": ["solar_intensity", "temperature"], "expr": "solar_intensity / 100 + temperature * 0.01"}
  ]
}`

const yamlManifest = `
assignment: ecosystem-sim
evaluation_order:
  - output: temperature
    depends_on: [solar_intensity]
    expr: "20 + 0.05 * solar_intensity"
  - output: uv_index
    depends_on: [solar_intensity, temperature]
    expr: "solar_intensity / 100 + temperature * 0.01"
`

func TestParse_JSON(t *testing.T) {
	manifest, err := Parse([]byte(jsonManifest), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(manifest.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(manifest.Steps))
	}
	if manifest.Steps[0].Output != "temperature" {
		t.Errorf("expected first output temperature, got %s", manifest.Steps[0].Output)
	}
	if manifest.Steps[1].DependsOn[1] != "temperature" {
		t.Errorf("unexpected depends_on: %v", manifest.Steps[1].DependsOn)
	}
}

func TestParse_YAML(t *testing.T) {
	manifest, err := Parse([]byte(yamlManifest), FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(manifest.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(manifest.Steps))
	}
	if manifest.Steps[1].Output != "uv_index" {
		t.Errorf("expected second output uv_index, got %s", manifest.Steps[1].Output)
	}
}

func TestParse_BadJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json"), FormatJSON); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"submission.json", FormatJSON, false},
		{"submission.yaml", FormatYAML, false},
		{"submission.yml", FormatYAML, false},
		{"dir/Submission.JSON", FormatJSON, false},
		{"submission.txt", "", true},
		{"submission", "", true},
	}

	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("%s: expected ErrUnknownFormat, got %v", tt.path, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.path, tt.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	step := func(output, expr string, deps ...string) domain.StepSpec {
		return domain.StepSpec{Output: output, DependsOn: deps, Expr: expr}
	}

	tests := []struct {
		name     string
		manifest *domain.Manifest
		wantErr  error
	}{
		{
			name:     "nil manifest",
			manifest: nil,
			wantErr:  ErrEmptyManifest,
		},
		{
			name:     "no steps",
			manifest: &domain.Manifest{},
			wantErr:  ErrEmptyManifest,
		},
		{
			name: "empty output",
			manifest: &domain.Manifest{Steps: []domain.StepSpec{
				step("", "1"),
			}},
			wantErr: ErrEmptyOutput,
		},
		{
			name: "duplicate output",
			manifest: &domain.Manifest{Steps: []domain.StepSpec{
				step("a", "1"),
				step("a", "2"),
			}},
			wantErr: ErrDuplicateOutput,
		},
		{
			name: "empty expression",
			manifest: &domain.Manifest{Steps: []domain.StepSpec{
				step("a", "   "),
			}},
			wantErr: ErrEmptyExpr,
		},
		{
			name: "bad expression",
			manifest: &domain.Manifest{Steps: []domain.StepSpec{
				step("a", "1 +* 2"),
			}},
			wantErr: ErrBadExpr,
		},
		{
			name: "undeclared variable",
			manifest: &domain.Manifest{Steps: []domain.StepSpec{
				step("a", "x + y", "x"),
			}},
			wantErr: ErrUndeclaredVar,
		},
		{
			name: "valid",
			manifest: &domain.Manifest{Steps: []domain.StepSpec{
				step("a", "x * 2", "x"),
				step("b", "a + x", "a", "x"),
			}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.manifest)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_ErrorCarriesOutput(t *testing.T) {
	manifest := &domain.Manifest{Steps: []domain.StepSpec{
		{Output: "broken", Expr: "(("},
	}}

	err := Validate(manifest)

	var mErr *ManifestError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected *ManifestError, got %T", err)
	}
	if mErr.Output != "broken" {
		t.Errorf("expected output broken in error, got %q", mErr.Output)
	}
}

func TestCompileSteps(t *testing.T) {
	manifest, err := Parse([]byte(jsonManifest), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	steps, err := CompileSteps(manifest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Formula == nil {
		t.Error("compiled step has nil formula")
	}
}

func TestEncode_RoundTripsReferenceManifest(t *testing.T) {
	ref := ecosim.ReferenceManifest()

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(&ref, format)
		if err != nil {
			t.Fatalf("%s: unexpected encode error: %v", format, err)
		}

		parsed, err := Parse(data, format)
		if err != nil {
			t.Fatalf("%s: unexpected parse error: %v", format, err)
		}
		if len(parsed.Steps) != len(ref.Steps) {
			t.Errorf("%s: expected %d steps, got %d", format, len(ref.Steps), len(parsed.Steps))
		}
	}
}
