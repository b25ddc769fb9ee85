package extract

import "fmt"

// ExtractionError wraps an underlying engine failure. A failed page aborts
// extraction for the whole document; no partial text is returned.
type ExtractionError struct {
	Path string
	Page int // 0 when the failure is not page-specific
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("extracting %s (page %d): %v", e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("extracting %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
