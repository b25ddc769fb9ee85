// Package extract obtains raw per-page text from uploaded documents. PDFs try
// the selectable text layer first and fall back to rasterization plus OCR per
// page; images go straight to OCR. The OCR binaries (tesseract, pdftoppm) are
// invoked through a Runner seam so tests can stub them.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"docsense/internal/config"
	"docsense/internal/domain"
)

// Extractor implements port.TextExtractor.
type Extractor struct {
	cfg    config.ExtractorConfig
	runner Runner
}

// New creates an Extractor with defaults applied for unset config fields.
func New(cfg config.ExtractorConfig) *Extractor {
	return NewWithRunner(cfg, execRunner{})
}

// NewWithRunner creates an Extractor with a custom command runner (for testing).
func NewWithRunner(cfg config.ExtractorConfig, runner Runner) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PageConcurrency <= 0 {
		cfg.PageConcurrency = 4
	}
	return &Extractor{cfg: cfg, runner: runner}
}

// Extract picks a strategy based on file extension. Unrecognized extensions
// are rejected before the file is touched.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	kind, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	start := time.Now()
	var result *domain.ExtractionResult
	var err error
	switch kind {
	case domain.MediaKindPaginated:
		result, err = e.extractPDF(ctx, path)
	default:
		result, err = e.extractImage(ctx, path)
	}
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// extractImage runs OCR on a raster image. For pure images recognition is the
// only path; there is no text layer to try.
func (e *Extractor) extractImage(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	text, err := e.tesseract(ctx, path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	return &domain.ExtractionResult{
		Pages: []domain.PageText{{Number: 1, Text: text, Method: domain.MethodOCR}},
	}, nil
}

// tesseract recognizes text in a single raster image.
func (e *Extractor) tesseract(ctx context.Context, imagePath string) (string, error) {
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, imagePath, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}
