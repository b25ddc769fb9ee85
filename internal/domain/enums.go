package domain

// MediaKind represents the detected kind of an input document.
type MediaKind string

const (
	MediaKindImage     MediaKind = "image"
	MediaKindPaginated MediaKind = "paginated"
)

// AllowedExtensions maps file extensions (without dot) to their MediaKind.
var AllowedExtensions = map[string]MediaKind{
	"pdf":  MediaKindPaginated,
	"jpg":  MediaKindImage,
	"jpeg": MediaKindImage,
	"png":  MediaKindImage,
}

// AllowedContentTypes maps file extensions to MIME content types.
var AllowedContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// ExtractionMethod records how text was obtained for a single page.
type ExtractionMethod string

const (
	// MethodDirect means the page had a selectable text layer.
	MethodDirect ExtractionMethod = "direct"
	// MethodOCR means the page was rasterized and recognized.
	MethodOCR ExtractionMethod = "ocr"
)

// DocumentCategory is the closed set of document types driving prompt selection.
type DocumentCategory string

const (
	CategoryInvoice  DocumentCategory = "invoice"
	CategoryContract DocumentCategory = "contract"
	CategoryForm     DocumentCategory = "form"
	CategoryGeneral  DocumentCategory = "general"
)

// AnalysisStatus represents the lifecycle of a document analysis.
type AnalysisStatus string

const (
	AnalysisStatusPending   AnalysisStatus = "pending"
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusFailed    AnalysisStatus = "failed"
	// AnalysisStatusEmpty is terminal: extraction succeeded but yielded no
	// text, so there was nothing to send to the model. Not an error.
	AnalysisStatusEmpty AnalysisStatus = "empty"
)
