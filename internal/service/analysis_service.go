package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docsense/internal/classify"
	"docsense/internal/config"
	"docsense/internal/display"
	"docsense/internal/domain"
	"docsense/internal/llm"
	"docsense/internal/port"
	"docsense/internal/prompt"
	"docsense/internal/record"
)

// UploadInput is the DTO for document upload requests.
type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// AnalysisService defines the document analysis contract.
type AnalysisService interface {
	CreateFromUpload(ctx context.Context, input UploadInput) (*domain.Analysis, error)
	Analyze(ctx context.Context, id uuid.UUID) (*domain.Analysis, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error)
	List(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type analysisService struct {
	repo      port.AnalysisRepository
	storage   port.ObjectStorage
	extractor port.TextExtractor
	client    port.LLMClient
	validator *record.Validator
	s3cfg     *config.S3Config
	uploadCfg *config.UploadConfig
	llmCfg    *config.LLMConfig
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	repo port.AnalysisRepository,
	storage port.ObjectStorage,
	extractor port.TextExtractor,
	client port.LLMClient,
	validator *record.Validator,
	s3cfg *config.S3Config,
	uploadCfg *config.UploadConfig,
	llmCfg *config.LLMConfig,
) AnalysisService {
	return &analysisService{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		client:    client,
		validator: validator,
		s3cfg:     s3cfg,
		uploadCfg: uploadCfg,
		llmCfg:    llmCfg,
	}
}

func (s *analysisService) CreateFromUpload(ctx context.Context, input UploadInput) (*domain.Analysis, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	mediaKind, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}

	// Validate file size
	maxBytes := s.uploadCfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detected := http.DetectContentType(buf[:n])
	if !allowedContentType(detected) {
		return nil, fmt.Errorf("%w: detected %s", domain.ErrUnsupportedFormat, detected)
	}

	// Seek back to beginning for saving
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	id := uuid.New()
	localPath := filepath.Join(s.uploadCfg.TempDir, id.String()+"."+ext)
	if err := saveToDisk(input.File, localPath); err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}

	s3Key := fmt.Sprintf("documents/%s/%s", id, input.Header.Filename)
	contentType := domain.AllowedContentTypes[ext]

	analysis := &domain.Analysis{
		ID:        id,
		FileName:  input.Header.Filename,
		FilePath:  localPath,
		S3Bucket:  s.s3cfg.Bucket,
		S3Key:     s3Key,
		MediaKind: mediaKind,
		Status:    domain.AnalysisStatusPending,
	}

	log.Printf("analysisService.CreateFromUpload: received %s (%s, %d bytes)",
		input.Header.Filename, contentType, input.Header.Size)

	if err := s.repo.Create(ctx, analysis); err != nil {
		log.Printf("analysisService.CreateFromUpload: failed to create analysis row: %v", err)
		return nil, fmt.Errorf("creating analysis: %w", err)
	}

	// Archive original to S3. The local copy drives extraction; the S3 copy
	// is the durable original.
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("reopening upload: %w", err)
	}
	defer f.Close()

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         s3Key,
		Body:        f,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("analysisService.CreateFromUpload: S3 upload failed for %s: %v", id, err)
		return nil, domain.ErrUploadFailed
	}

	return analysis, nil
}

// Analyze runs the full pipeline for a previously uploaded document:
// extraction, classification, prompt construction, model call, response
// parsing, and display transformation. Failures after extraction are
// persisted on the analysis row rather than leaving it pending.
func (s *analysisService) Analyze(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	analysis, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(ctx, analysis.FilePath)
	if err != nil {
		s.failAnalysis(ctx, analysis, fmt.Sprintf("extracting text: %v", err))
		return nil, err
	}
	analysis.PageCount = len(result.Pages)
	analysis.RawText = result.Text()

	// No text anywhere in the document is a terminal state, not an error.
	// There is nothing to send to the model.
	if result.IsEmpty() {
		log.Printf("analysisService.Analyze: %s produced no text, skipping model call", id)
		now := time.Now().UTC()
		analysis.Status = domain.AnalysisStatusEmpty
		analysis.AnalyzedAt = &now
		if err := s.repo.UpdateResult(ctx, analysis); err != nil {
			return nil, fmt.Errorf("saving empty result: %w", err)
		}
		return analysis, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis.Category = classify.Classify(analysis.RawText)
	promptText := prompt.Build(analysis.Category, analysis.RawText)

	responseText, err := s.generateWithRetry(ctx, promptText)
	if err != nil {
		s.failAnalysis(ctx, analysis, fmt.Sprintf("calling model: %v", err))
		return nil, err
	}
	analysis.ModelUsed = s.client.Model()

	rec, err := record.Parse(responseText)
	if err != nil {
		s.failAnalysis(ctx, analysis, fmt.Sprintf("parsing response: %v", err))
		return nil, err
	}

	if s.validator != nil {
		if err := s.validator.Validate(analysis.Category, rec); err != nil {
			s.failAnalysis(ctx, analysis, fmt.Sprintf("validating record: %v", err))
			return nil, err
		}
	}

	bundle := display.Transform(rec)

	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	bundleJSON, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("encoding bundle: %w", err)
	}

	now := time.Now().UTC()
	analysis.Record = recordJSON
	analysis.Bundle = bundleJSON
	analysis.Status = domain.AnalysisStatusCompleted
	analysis.Error = ""
	analysis.AnalyzedAt = &now

	if err := s.repo.UpdateResult(ctx, analysis); err != nil {
		log.Printf("analysisService.Analyze: failed to save results for %s: %v", id, err)
		return nil, fmt.Errorf("saving results: %w", err)
	}

	log.Printf("analysisService.Analyze: %s completed (category=%s, pages=%d, model=%s)",
		id, analysis.Category, analysis.PageCount, analysis.ModelUsed)
	return analysis, nil
}

func (s *analysisService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *analysisService) List(ctx context.Context, offset, limit int) ([]domain.Analysis, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *analysisService) Delete(ctx context.Context, id uuid.UUID) error {
	analysis, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if analysis.S3Key != "" {
		if err := s.storage.Delete(ctx, analysis.S3Bucket, analysis.S3Key); err != nil {
			log.Printf("analysisService.Delete: failed to delete s3 object %s: %v", analysis.S3Key, err)
		}
	}
	return s.repo.Delete(ctx, id)
}

// generateWithRetry calls the model, retrying only transient provider
// failures with exponential backoff. Configuration and parse errors are
// never retried. A rate limit response waits out the provider's hint.
func (s *analysisService) generateWithRetry(ctx context.Context, promptText string) (string, error) {
	maxAttempts := s.llmCfg.MaxRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	baseDelay := s.llmCfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := s.client.Generate(ctx, promptText)
		if err == nil {
			return text, nil
		}
		lastErr = err

		delay, retryable := retryDelay(err, baseDelay, attempt)
		if !retryable || attempt == maxAttempts {
			return "", err
		}

		log.Printf("analysisService.generateWithRetry: attempt %d/%d failed, retrying in %s: %v",
			attempt, maxAttempts, delay, err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", lastErr
}

// retryDelay reports whether err is retryable and how long to wait.
func retryDelay(err error, baseDelay time.Duration, attempt int) (time.Duration, bool) {
	var rlErr *llm.RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr.RetryAfter, true
	}
	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		// Client errors other than 429 will not succeed on retry.
		if provErr.StatusCode >= 400 && provErr.StatusCode < 500 {
			return 0, false
		}
		return baseDelay << (attempt - 1), true
	}
	return 0, false
}

func (s *analysisService) failAnalysis(ctx context.Context, analysis *domain.Analysis, errMsg string) {
	log.Printf("analysisService.failAnalysis: analysis %s failed: %s", analysis.ID, errMsg)
	analysis.Status = domain.AnalysisStatusFailed
	analysis.Error = errMsg
	if err := s.repo.UpdateResult(ctx, analysis); err != nil {
		log.Printf("analysisService.failAnalysis: failed to update status for %s: %v", analysis.ID, err)
	}
}

func allowedContentType(detected string) bool {
	for _, ct := range domain.AllowedContentTypes {
		if detected == ct {
			return true
		}
	}
	// DetectContentType labels some valid PDFs as octet-stream when the
	// header is preceded by junk bytes. The extension check already passed.
	return detected == "application/octet-stream"
}

func saveToDisk(r io.Reader, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return err
	}
	return nil
}
