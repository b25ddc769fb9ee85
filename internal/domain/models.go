package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document identifies one uploaded input file. Immutable after creation.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	MediaKind MediaKind `json:"media_kind"`
	PageCount int       `json:"page_count"`
}

// PageText is the extraction output for a single page.
type PageText struct {
	Number int              `json:"number"` // 1-based
	Text   string           `json:"text"`
	Method ExtractionMethod `json:"method"`
}

// ExtractionResult is the ordered per-page text of a document.
// An all-empty result is a valid terminal state, not an error.
type ExtractionResult struct {
	Pages    []PageText    `json:"pages"`
	Duration time.Duration `json:"duration"`
}

// Text returns the concatenation of page texts in page order.
func (r *ExtractionResult) Text() string {
	var out string
	for _, p := range r.Pages {
		out += p.Text
	}
	return out
}

// IsEmpty reports whether no page yielded any non-whitespace text.
func (r *ExtractionResult) IsEmpty() bool {
	for _, p := range r.Pages {
		for _, c := range p.Text {
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' && c != '\f' {
				return false
			}
		}
	}
	return true
}

// ExtractedRecord is the structured object decoded from a model response.
// Values are strings, numbers, nulls, nested objects, or ordered lists.
type ExtractedRecord map[string]any

// DisplayBundle is the three-way split of an ExtractedRecord for rendering.
type DisplayBundle struct {
	MainFields  map[string]any   `json:"main_fields"`
	ItemRows    []map[string]any `json:"item_rows"`
	SummaryText string           `json:"summary_text"`
}

// Analysis is the persisted result of one pipeline invocation.
type Analysis struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	FileName   string           `db:"file_name" json:"file_name"`
	FilePath   string           `db:"file_path" json:"file_path"`
	S3Bucket   string           `db:"s3_bucket" json:"-"`
	S3Key      string           `db:"s3_key" json:"-"`
	MediaKind  MediaKind        `db:"media_kind" json:"media_kind"`
	PageCount  int              `db:"page_count" json:"page_count"`
	Category   DocumentCategory `db:"category" json:"category,omitempty"`
	Status     AnalysisStatus   `db:"status" json:"status"`
	RawText    string           `db:"raw_text" json:"raw_text,omitempty"`
	Record     json.RawMessage  `db:"record" json:"record,omitempty"`
	Bundle     json.RawMessage  `db:"bundle" json:"bundle,omitempty"`
	ModelUsed  string           `db:"model_used" json:"model_used,omitempty"`
	Error      string           `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
	AnalyzedAt *time.Time       `db:"analyzed_at" json:"analyzed_at,omitempty"`
}
