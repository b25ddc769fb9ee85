package display_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docsense/internal/display"
	"docsense/internal/domain"
)

func TestTransform_Partitioning(t *testing.T) {
	rec := domain.ExtractedRecord{
		"items": []any{
			map[string]any{"x": "1"},
			map[string]any{"x": "2"},
		},
		"total": "5",
	}

	bundle := display.Transform(rec)

	assert.Equal(t, map[string]any{"total": "5"}, bundle.MainFields)
	assert.Len(t, bundle.ItemRows, 2)
	assert.Equal(t, "1", bundle.ItemRows[0]["x"])
	assert.Equal(t, "2", bundle.ItemRows[1]["x"])
	assert.Empty(t, bundle.SummaryText)
}

func TestTransform_SummaryPrecedence(t *testing.T) {
	bundle := display.Transform(domain.ExtractedRecord{
		"a":               "1",
		"summary":         "S1",
		"overall_summary": "S2",
	})
	assert.Equal(t, "S2", bundle.SummaryText)
	assert.Equal(t, map[string]any{"a": "1"}, bundle.MainFields)

	bundle = display.Transform(domain.ExtractedRecord{"summary": "S1"})
	assert.Equal(t, "S1", bundle.SummaryText)

	bundle = display.Transform(domain.ExtractedRecord{
		"key_clauses_summary": "KC",
		"summary":             "S1",
	})
	assert.Equal(t, "KC", bundle.SummaryText)
}

func TestTransform_EmptySummaryDoesNotWin(t *testing.T) {
	bundle := display.Transform(domain.ExtractedRecord{
		"overall_summary": "",
		"summary":         "S1",
	})
	assert.Equal(t, "S1", bundle.SummaryText)
}

func TestTransform_MalformedItemsDegrade(t *testing.T) {
	// items is not a list
	bundle := display.Transform(domain.ExtractedRecord{"items": "oops", "a": "1"})
	assert.Empty(t, bundle.ItemRows)
	assert.Equal(t, map[string]any{"a": "1"}, bundle.MainFields)

	// items contains a non-object entry
	bundle = display.Transform(domain.ExtractedRecord{
		"items": []any{map[string]any{"x": "1"}, "not an object"},
	})
	assert.Empty(t, bundle.ItemRows)

	// nil items
	bundle = display.Transform(domain.ExtractedRecord{"items": nil})
	assert.Empty(t, bundle.ItemRows)
}

func TestTransform_EmptyItemsList(t *testing.T) {
	bundle := display.Transform(domain.ExtractedRecord{"items": []any{}})
	assert.Empty(t, bundle.ItemRows)
}

// Every key must land in exactly one bucket.
func TestTransform_PartitionIsTotal(t *testing.T) {
	rec := domain.ExtractedRecord{
		"invoice_number":  "1",
		"items":           []any{map[string]any{"d": "x"}},
		"overall_summary": "sum",
		"nested":          map[string]any{"k": "v"},
	}
	bundle := display.Transform(rec)

	assert.Len(t, bundle.MainFields, 2) // invoice_number + nested
	assert.Len(t, bundle.ItemRows, 1)
	assert.Equal(t, "sum", bundle.SummaryText)
	assert.NotContains(t, bundle.MainFields, "items")
	assert.NotContains(t, bundle.MainFields, "overall_summary")
}

func TestFlatten(t *testing.T) {
	flat := display.Flatten(domain.ExtractedRecord{
		"parties":   []any{"Client A", "Consultant B"},
		"metadata":  map[string]any{"k": "v"},
		"title":     "Consulting Agreement",
		"missing":   nil,
		"items":     []any{map[string]any{"d": "x"}},
		"page_size": 3,
	})

	assert.Equal(t, "Client A, Consultant B", flat["parties"])
	assert.Equal(t, `{"k":"v"}`, flat["metadata"])
	assert.Equal(t, "Consulting Agreement", flat["title"])
	assert.Equal(t, "", flat["missing"])
	assert.Equal(t, "3", flat["page_size"])
	assert.NotContains(t, flat, "items")
}
