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

// GradingRepo — репозиторий для работы с gradings.
type GradingRepo struct {
	pool *pgxpool.Pool
}

// NewGradingRepo создаёт новый GradingRepo.
func NewGradingRepo(pool *pgxpool.Pool) *GradingRepo {
	return &GradingRepo{pool: pool}
}

// Create создаёт новый грейдинг.
func (r *GradingRepo) Create(ctx context.Context, grading *domain.Grading) error {
	query := `
		INSERT INTO gradings (id, submission_id, version, scenario, status, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		grading.ID,
		grading.SubmissionID,
		grading.Version,
		grading.Scenario,
		grading.Status,
		nullString(grading.IdempotencyKey),
		grading.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert grading: %w", err)
	}
	return nil
}

// GetByID возвращает грейдинг по ID.
func (r *GradingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Grading, error) {
	query := `
		SELECT id, submission_id, version, scenario, status, report,
		       started_at, finished_at, error, idempotency_key, created_at
		FROM gradings
		WHERE id = $1
	`
	return r.scanGrading(r.pool.QueryRow(ctx, query, id))
}

// GetByIdempotencyKey возвращает грейдинг по ключу идемпотентности.
func (r *GradingRepo) GetByIdempotencyKey(ctx context.Context, submissionID uuid.UUID, key string) (*domain.Grading, error) {
	query := `
		SELECT id, submission_id, version, scenario, status, report,
		       started_at, finished_at, error, idempotency_key, created_at
		FROM gradings
		WHERE submission_id = $1 AND idempotency_key = $2
	`
	return r.scanGrading(r.pool.QueryRow(ctx, query, submissionID, key))
}

// List возвращает список грейдингов с фильтрацией.
func (r *GradingRepo) List(ctx context.Context, filter GradingFilter) ([]domain.Grading, error) {
	query := `
		SELECT id, submission_id, version, scenario, status, report,
		       started_at, finished_at, error, idempotency_key, created_at
		FROM gradings
		WHERE ($1::uuid IS NULL OR submission_id = $1)
		  AND ($2::text IS NULL OR status = $2::grading_status)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullUUID(filter.SubmissionID),
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list gradings: %w", err)
	}
	defer rows.Close()

	var gradings []domain.Grading
	for rows.Next() {
		grading, err := r.scanGradingFromRows(rows)
		if err != nil {
			return nil, err
		}
		gradings = append(gradings, *grading)
	}
	return gradings, rows.Err()
}

// Update обновляет грейдинг.
func (r *GradingRepo) Update(ctx context.Context, grading *domain.Grading) error {
	var reportJSON []byte
	if grading.Report != nil {
		var err error
		reportJSON, err = json.Marshal(grading.Report)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
	}

	query := `
		UPDATE gradings
		SET status = $2, report = $3, started_at = $4, finished_at = $5, error = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		grading.ID,
		grading.Status,
		reportJSON,
		grading.StartedAt,
		grading.FinishedAt,
		nullString(grading.Error),
	)
	if err != nil {
		return fmt.Errorf("update grading: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPending возвращает грейдинги в статусе PENDING.
func (r *GradingRepo) ListPending(ctx context.Context, limit int) ([]domain.Grading, error) {
	query := `
		SELECT id, submission_id, version, scenario, status, report,
		       started_at, finished_at, error, idempotency_key, created_at
		FROM gradings
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending gradings: %w", err)
	}
	defer rows.Close()

	var gradings []domain.Grading
	for rows.Next() {
		grading, err := r.scanGradingFromRows(rows)
		if err != nil {
			return nil, err
		}
		gradings = append(gradings, *grading)
	}
	return gradings, rows.Err()
}

// --- Helpers ---

// GradingFilter — параметры фильтрации грейдингов.
type GradingFilter struct {
	SubmissionID *uuid.UUID
	Status       domain.GradingStatus
	Limit        int
	Offset       int
}

// scanGrading сканирует одну строку в Grading.
func (r *GradingRepo) scanGrading(row pgx.Row) (*domain.Grading, error) {
	var grading domain.Grading
	var reportJSON []byte
	var idempotencyKey *string
	var gradingError *string

	err := row.Scan(
		&grading.ID,
		&grading.SubmissionID,
		&grading.Version,
		&grading.Scenario,
		&grading.Status,
		&reportJSON,
		&grading.StartedAt,
		&grading.FinishedAt,
		&gradingError,
		&idempotencyKey,
		&grading.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan grading: %w", err)
	}

	if reportJSON != nil {
		if err := json.Unmarshal(reportJSON, &grading.Report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
	}

	if idempotencyKey != nil {
		grading.IdempotencyKey = *idempotencyKey
	}
	if gradingError != nil {
		grading.Error = *gradingError
	}

	return &grading, nil
}

// scanGradingFromRows сканирует строку из rows в Grading.
func (r *GradingRepo) scanGradingFromRows(rows pgx.Rows) (*domain.Grading, error) {
	var grading domain.Grading
	var reportJSON []byte
	var idempotencyKey *string
	var gradingError *string

	err := rows.Scan(
		&grading.ID,
		&grading.SubmissionID,
		&grading.Version,
		&grading.Scenario,
		&grading.Status,
		&reportJSON,
		&grading.StartedAt,
		&grading.FinishedAt,
		&gradingError,
		&idempotencyKey,
		&grading.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan grading: %w", err)
	}

	if reportJSON != nil {
		if err := json.Unmarshal(reportJSON, &grading.Report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
	}

	if idempotencyKey != nil {
		grading.IdempotencyKey = *idempotencyKey
	}
	if gradingError != nil {
		grading.Error = *gradingError
	}

	return &grading, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullUUID возвращает nil для пустого UUID.
func nullUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
