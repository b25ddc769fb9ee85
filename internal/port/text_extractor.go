package port

import (
	"context"

	"docsense/internal/domain"
)

// TextExtractor obtains raw per-page text from a document on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*domain.ExtractionResult, error)
}
