package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Biome/internal/domain"
)

// ScenarioRepo — репозиторий для работы со сценариями проверки.
//
// Сценарии курируются преподавателем: значения независимых переменных
// и список обязательных производных хранятся как JSONB, чтобы менять
// их без миграций.
type ScenarioRepo struct {
	pool *pgxpool.Pool
}

// NewScenarioRepo создаёт новый ScenarioRepo.
func NewScenarioRepo(pool *pgxpool.Pool) *ScenarioRepo {
	return &ScenarioRepo{pool: pool}
}

// Save создаёт или обновляет сценарий задания.
func (r *ScenarioRepo) Save(ctx context.Context, assignment string, scenario *domain.Scenario) error {
	specJSON, err := json.Marshal(scenario)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}

	query := `
		INSERT INTO scenarios (assignment, name, spec, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (assignment, name)
		DO UPDATE SET spec = EXCLUDED.spec, updated_at = NOW()
	`
	_, err = r.pool.Exec(ctx, query, assignment, scenario.Name, specJSON)
	if err != nil {
		return fmt.Errorf("save scenario: %w", err)
	}
	return nil
}

// GetByName возвращает сценарий задания по имени.
func (r *ScenarioRepo) GetByName(ctx context.Context, assignment, name string) (*domain.Scenario, error) {
	query := `
		SELECT spec
		FROM scenarios
		WHERE assignment = $1 AND name = $2
	`
	var specJSON []byte
	err := r.pool.QueryRow(ctx, query, assignment, name).Scan(&specJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario: %w", err)
	}

	var scenario domain.Scenario
	if err := json.Unmarshal(specJSON, &scenario); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}
	return &scenario, nil
}

// ListByAssignment возвращает все сценарии задания.
func (r *ScenarioRepo) ListByAssignment(ctx context.Context, assignment string) ([]domain.Scenario, error) {
	query := `
		SELECT spec
		FROM scenarios
		WHERE assignment = $1
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query, assignment)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []domain.Scenario
	for rows.Next() {
		var specJSON []byte
		if err := rows.Scan(&specJSON); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}

		var scenario domain.Scenario
		if err := json.Unmarshal(specJSON, &scenario); err != nil {
			return nil, fmt.Errorf("unmarshal scenario: %w", err)
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, rows.Err()
}

// Delete удаляет сценарий задания.
func (r *ScenarioRepo) Delete(ctx context.Context, assignment, name string) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM scenarios WHERE assignment = $1 AND name = $2
	`, assignment, name)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
