package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Biome/internal/domain"
)

// SubmissionRepo — репозиторий для работы с submissions и submission_versions.
type SubmissionRepo struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepo создаёт новый SubmissionRepo.
func NewSubmissionRepo(pool *pgxpool.Pool) *SubmissionRepo {
	return &SubmissionRepo{pool: pool}
}

// --- Submission CRUD ---

// Create создаёт новый сабмишен.
func (r *SubmissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	query := `
		INSERT INTO submissions (id, student, assignment, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.Student,
		sub.Assignment,
		sub.IsActive,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetByID возвращает сабмишен по ID.
func (r *SubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, student, assignment, is_active, created_at
		FROM submissions
		WHERE id = $1
	`
	var sub domain.Submission
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&sub.ID,
		&sub.Student,
		&sub.Assignment,
		&sub.IsActive,
		&sub.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission by id: %w", err)
	}
	return &sub, nil
}

// GetByStudent возвращает сабмишен студента по заданию.
func (r *SubmissionRepo) GetByStudent(ctx context.Context, student, assignment string) (*domain.Submission, error) {
	query := `
		SELECT id, student, assignment, is_active, created_at
		FROM submissions
		WHERE student = $1 AND assignment = $2
	`
	var sub domain.Submission
	err := r.pool.QueryRow(ctx, query, student, assignment).Scan(
		&sub.ID,
		&sub.Student,
		&sub.Assignment,
		&sub.IsActive,
		&sub.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission by student: %w", err)
	}
	return &sub, nil
}

// List возвращает список сабмишенов с фильтрацией.
func (r *SubmissionRepo) List(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error) {
	query := `
		SELECT id, student, assignment, is_active, created_at
		FROM submissions
		WHERE ($1::text IS NULL OR assignment = $1)
		  AND ($2::text IS NULL OR student = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(filter.Assignment),
		nullString(filter.Student),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var sub domain.Submission
		if err := rows.Scan(
			&sub.ID,
			&sub.Student,
			&sub.Assignment,
			&sub.IsActive,
			&sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// ListActiveByAssignment возвращает активные сабмишены задания.
// Используется Scheduler'ом при плановых перепроверках.
func (r *SubmissionRepo) ListActiveByAssignment(ctx context.Context, assignment string) ([]domain.Submission, error) {
	query := `
		SELECT id, student, assignment, is_active, created_at
		FROM submissions
		WHERE assignment = $1 AND is_active = true
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, assignment)
	if err != nil {
		return nil, fmt.Errorf("list active submissions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var sub domain.Submission
		if err := rows.Scan(
			&sub.ID,
			&sub.Student,
			&sub.Assignment,
			&sub.IsActive,
			&sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Update обновляет сабмишен.
func (r *SubmissionRepo) Update(ctx context.Context, sub *domain.Submission) error {
	query := `
		UPDATE submissions
		SET student = $2, assignment = $3, is_active = $4
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, sub.ID, sub.Student, sub.Assignment, sub.IsActive)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет сабмишен (каскадно удалит versions и gradings).
func (r *SubmissionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM submissions WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- SubmissionVersion CRUD ---

// CreateVersion создаёт новую версию сабмишена (пересдачу).
// Версия автоматически инкрементируется.
func (r *SubmissionRepo) CreateVersion(ctx context.Context, submissionID uuid.UUID, manifest domain.Manifest) (*domain.SubmissionVersion, error) {
	// Сериализуем манифест в JSON
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	// Получаем следующий номер версии
	var nextVersion int
	err = r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM submission_versions
		WHERE submission_id = $1
	`, submissionID).Scan(&nextVersion)
	if err != nil {
		return nil, fmt.Errorf("get next version: %w", err)
	}

	// Создаём версию
	var version domain.SubmissionVersion
	err = r.pool.QueryRow(ctx, `
		INSERT INTO submission_versions (submission_id, version, manifest, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING submission_id, version, manifest, created_at
	`, submissionID, nextVersion, manifestJSON).Scan(
		&version.SubmissionID,
		&version.Version,
		&manifestJSON,
		&version.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert submission version: %w", err)
	}

	// Десериализуем манифест обратно
	if err := json.Unmarshal(manifestJSON, &version.Manifest); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &version, nil
}

// GetVersion возвращает конкретную версию сабмишена.
func (r *SubmissionRepo) GetVersion(ctx context.Context, submissionID uuid.UUID, version int) (*domain.SubmissionVersion, error) {
	query := `
		SELECT submission_id, version, manifest, created_at
		FROM submission_versions
		WHERE submission_id = $1 AND version = $2
	`
	var sv domain.SubmissionVersion
	var manifestJSON []byte
	err := r.pool.QueryRow(ctx, query, submissionID, version).Scan(
		&sv.SubmissionID,
		&sv.Version,
		&manifestJSON,
		&sv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get submission version: %w", err)
	}

	if err := json.Unmarshal(manifestJSON, &sv.Manifest); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &sv, nil
}

// GetLatestVersion возвращает последнюю версию сабмишена.
func (r *SubmissionRepo) GetLatestVersion(ctx context.Context, submissionID uuid.UUID) (*domain.SubmissionVersion, error) {
	query := `
		SELECT submission_id, version, manifest, created_at
		FROM submission_versions
		WHERE submission_id = $1
		ORDER BY version DESC
		LIMIT 1
	`
	var sv domain.SubmissionVersion
	var manifestJSON []byte
	err := r.pool.QueryRow(ctx, query, submissionID).Scan(
		&sv.SubmissionID,
		&sv.Version,
		&manifestJSON,
		&sv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest submission version: %w", err)
	}

	if err := json.Unmarshal(manifestJSON, &sv.Manifest); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &sv, nil
}

// ListVersions возвращает все версии сабмишена.
func (r *SubmissionRepo) ListVersions(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionVersion, error) {
	query := `
		SELECT submission_id, version, manifest, created_at
		FROM submission_versions
		WHERE submission_id = $1
		ORDER BY version DESC
	`
	rows, err := r.pool.Query(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list submission versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.SubmissionVersion
	for rows.Next() {
		var sv domain.SubmissionVersion
		var manifestJSON []byte
		if err := rows.Scan(
			&sv.SubmissionID,
			&sv.Version,
			&manifestJSON,
			&sv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission version: %w", err)
		}

		if err := json.Unmarshal(manifestJSON, &sv.Manifest); err != nil {
			return nil, fmt.Errorf("unmarshal manifest: %w", err)
		}

		versions = append(versions, sv)
	}
	return versions, rows.Err()
}

// SubmissionFilter — параметры фильтрации сабмишенов.
type SubmissionFilter struct {
	Assignment string
	Student    string
	Limit      int
	Offset     int
}
