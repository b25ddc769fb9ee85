package port

import (
	"context"

	"github.com/google/uuid"

	"docsense/internal/domain"
)

// AnalysisRepository defines the contract for analysis persistence.
type AnalysisRepository interface {
	Create(ctx context.Context, a *domain.Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error)
	List(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error)
	UpdateResult(ctx context.Context, a *domain.Analysis) error
	Delete(ctx context.Context, id uuid.UUID) error
}
