// Package record parses and optionally validates structured model responses.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"docsense/internal/domain"
)

// MalformedResponseError indicates the model response could not be decoded as
// a single JSON object. Raw carries the response text for diagnosis.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v (raw: %s)", e.Err, truncate(e.Raw, 500))
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Parse decodes response text as a single JSON object. A surrounding markdown
// code fence is tolerated and stripped; anything that does not decode to an
// object-rooted value fails, including null and content with trailing data.
// Unexpected, missing, or extra fields relative to the requested schema are
// accepted as-is.
func Parse(responseText string) (domain.ExtractedRecord, error) {
	cleaned := stripCodeFence(responseText)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()

	var rec domain.ExtractedRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, &MalformedResponseError{Raw: responseText, Err: err}
	}
	// json null decodes into a nil map without error.
	if rec == nil {
		return nil, &MalformedResponseError{Raw: responseText, Err: errors.New("response is null, not an object")}
	}
	// A second value after the object means the response was not a single
	// JSON document.
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, &MalformedResponseError{Raw: responseText, Err: errors.New("trailing data after JSON object")}
	}
	return rec, nil
}

// stripCodeFence removes a leading/trailing markdown fence if the model added
// one despite being told not to.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
