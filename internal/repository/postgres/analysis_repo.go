package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docsense/internal/domain"
	"docsense/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, a *domain.Analysis) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `INSERT INTO analyses
		(id, file_name, file_path, s3_bucket, s3_key, media_kind, page_count,
		 category, status, raw_text, record, bundle, model_used, error,
		 created_at, updated_at, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.FileName, a.FilePath, a.S3Bucket, a.S3Key, a.MediaKind, a.PageCount,
		a.Category, a.Status, a.RawText, a.Record, a.Bundle, a.ModelUsed, a.Error,
		a.CreatedAt, a.UpdatedAt, a.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	var a domain.Analysis
	err := r.db.GetContext(ctx, &a, "SELECT * FROM analyses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return &a, nil
}

func (r *analysisRepo) List(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM analyses")
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List count: %w", err)
	}

	var analyses []domain.Analysis
	err = r.db.SelectContext(ctx, &analyses,
		"SELECT * FROM analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List: %w", err)
	}
	return analyses, total, nil
}

func (r *analysisRepo) UpdateResult(ctx context.Context, a *domain.Analysis) error {
	a.UpdatedAt = time.Now().UTC()

	query := `UPDATE analyses SET
		page_count = $1, category = $2, status = $3, raw_text = $4,
		record = $5, bundle = $6, model_used = $7, error = $8,
		updated_at = $9, analyzed_at = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		a.PageCount, a.Category, a.Status, a.RawText,
		a.Record, a.Bundle, a.ModelUsed, a.Error,
		a.UpdatedAt, a.AnalyzedAt, a.ID)
	if err != nil {
		return fmt.Errorf("analysisRepo.UpdateResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *analysisRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("analysisRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
