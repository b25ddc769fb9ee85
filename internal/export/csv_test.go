package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsense/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 8)
	assert.Equal(t, "File Name", row[0])
	assert.Equal(t, "Analyzed At", row[7])
}

func TestWriteAnalyses_Completed(t *testing.T) {
	bundle := domain.DisplayBundle{
		MainFields:  map[string]any{"invoice_number": "INV-001"},
		SummaryText: "Invoice from Seller Corp for January services.",
	}
	bundleJSON, err := json.Marshal(bundle)
	require.NoError(t, err)

	analyzedAt := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	a := domain.Analysis{
		ID:         uuid.New(),
		FileName:   "invoice.pdf",
		Status:     domain.AnalysisStatusCompleted,
		Category:   domain.CategoryInvoice,
		PageCount:  3,
		ModelUsed:  "gemini-2.0-flash",
		Bundle:     bundleJSON,
		CreatedAt:  time.Date(2025, 1, 14, 8, 0, 0, 0, time.UTC),
		AnalyzedAt: &analyzedAt,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteAnalyses([]domain.Analysis{a}))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "invoice.pdf", row[0])
	assert.Equal(t, "completed", row[1])
	assert.Equal(t, "invoice", row[2])
	assert.Equal(t, "3", row[3])
	assert.Equal(t, "gemini-2.0-flash", row[4])
	assert.Equal(t, "Invoice from Seller Corp for January services.", row[5])
	assert.Equal(t, "2025-01-15T10:30:00Z", row[7])
}

func TestWriteAnalyses_FailedLeavesResultColumnsEmpty(t *testing.T) {
	a := domain.Analysis{
		ID:        uuid.New(),
		FileName:  "broken.pdf",
		Status:    domain.AnalysisStatusFailed,
		Error:     "extracting text: no pages",
		CreatedAt: time.Date(2025, 1, 14, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteAnalyses([]domain.Analysis{a}))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "failed", rows[0][1])
	assert.Empty(t, rows[0][5])
	assert.Empty(t, rows[0][7])
}

func TestWriteBundle(t *testing.T) {
	bundle := &domain.DisplayBundle{
		MainFields: map[string]any{
			"invoice_number": "INV-42",
			"vendor_name":    "Acme Corp",
		},
		ItemRows: []map[string]any{
			{"description": "Widget", "quantity": float64(2)},
			{"description": "Gadget", "unit_price": "9.99"},
		},
		SummaryText: "Two-line invoice.",
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteBundle(bundle))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Field", "Value"}, rows[0])
	assert.Equal(t, []string{"invoice_number", "INV-42"}, rows[1])
	assert.Equal(t, []string{"vendor_name", "Acme Corp"}, rows[2])
	assert.Equal(t, []string{"summary", "Two-line invoice."}, rows[3])

	// The blank separator row is skipped by csv.Reader. Item columns are
	// the sorted union of keys across all rows.
	assert.Equal(t, []string{"description", "quantity", "unit_price"}, rows[4])
	assert.Equal(t, []string{"Widget", "2", ""}, rows[5])
	assert.Equal(t, []string{"Gadget", "", "9.99"}, rows[6])
}

func TestItemColumns_Union(t *testing.T) {
	cols := itemColumns([]map[string]any{
		{"b": 1, "a": 2},
		{"c": 3, "a": 4},
	})
	assert.Equal(t, []string{"a", "b", "c"}, cols)
}
