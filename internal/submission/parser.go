// Package submission отвечает за разбор и валидацию студенческих
// манифестов: JSON/YAML текст → domain.Manifest → []engine.Step.
package submission

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Biome/internal/domain"
	"github.com/shaiso/Biome/internal/engine"
)

// Format — формат манифеста.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat определяет формат по расширению файла.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load читает манифест из файла, определяя формат по расширению.
func Load(path string) (*domain.Manifest, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data, format)
}

// Parse разбирает манифест из байтов и валидирует его структуру.
func Parse(data []byte, format Format) (*domain.Manifest, error) {
	var manifest domain.Manifest

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("parse json manifest: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("parse yaml manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := Validate(&manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// Validate выполняет структурную валидацию манифеста.
//
// Проверяет:
//   - наличие шагов
//   - имена выходов (непустые, уникальные)
//   - наличие и компилируемость выражений
//   - что выражение не использует переменных вне depends_on
//
// Разрешимость зависимостей относительно сценария проверяет движок
// при сборке — здесь сценарий ещё неизвестен.
func Validate(manifest *domain.Manifest) error {
	if manifest == nil || len(manifest.Steps) == 0 {
		return NewManifestError("", "manifest has no evaluation order", ErrEmptyManifest)
	}

	outputs := make(map[string]bool, len(manifest.Steps))

	for i := range manifest.Steps {
		step := &manifest.Steps[i]

		if step.Output == "" {
			return NewManifestError("",
				fmt.Sprintf("step %d has empty output name", i), ErrEmptyOutput)
		}
		if outputs[step.Output] {
			return NewManifestError(step.Output,
				fmt.Sprintf("duplicate output name: %s", step.Output), ErrDuplicateOutput)
		}
		outputs[step.Output] = true

		if strings.TrimSpace(step.Expr) == "" {
			return NewManifestError(step.Output, "step has empty expression", ErrEmptyExpr)
		}

		expr, err := engine.Compile(step.Expr)
		if err != nil {
			return NewManifestError(step.Output,
				fmt.Sprintf("expression does not compile: %v", err), ErrBadExpr)
		}

		// Сверяем переменные выражения с объявленными зависимостями.
		declared := make(map[string]bool, len(step.DependsOn))
		for _, dep := range step.DependsOn {
			declared[dep] = true
		}
		for _, v := range expr.Vars() {
			if !declared[v] {
				return NewManifestError(step.Output,
					fmt.Sprintf("expression uses undeclared variable: %s", v), ErrUndeclaredVar)
			}
		}
	}

	return nil
}

// CompileSteps компилирует валидированный манифест в шаги движка.
func CompileSteps(manifest *domain.Manifest) ([]engine.Step, error) {
	steps := make([]engine.Step, 0, len(manifest.Steps))

	for i := range manifest.Steps {
		spec := &manifest.Steps[i]

		expr, err := engine.Compile(spec.Expr)
		if err != nil {
			return nil, NewManifestError(spec.Output,
				fmt.Sprintf("expression does not compile: %v", err), ErrBadExpr)
		}

		steps = append(steps, engine.Step{
			Output:    spec.Output,
			DependsOn: append([]string(nil), spec.DependsOn...),
			Formula:   expr,
		})
	}

	return steps, nil
}

// Encode сериализует манифест в указанный формат.
// Используется CLI для `biome grade --example` и при публикации версий.
func Encode(manifest *domain.Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(manifest, "", "  ")
	case FormatYAML:
		return yaml.Marshal(manifest)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
