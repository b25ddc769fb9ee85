package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docsense/internal/domain"
)

func TestWriteXLSX(t *testing.T) {
	a := &domain.Analysis{
		FileName:  "invoice.pdf",
		Category:  domain.CategoryInvoice,
		ModelUsed: "gpt-4o-mini",
	}
	bundle := &domain.DisplayBundle{
		MainFields: map[string]any{
			"invoice_number": "INV-42",
			"total_amount":   "199.00",
		},
		ItemRows: []map[string]any{
			{"description": "Widget", "quantity": float64(2)},
			{"description": "Gadget", "unit_price": "9.99"},
		},
		SummaryText: "Two widgets and a gadget.",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, a, bundle))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Fields", "Items"}, f.GetSheetList())

	fields, err := f.GetRows("Fields")
	require.NoError(t, err)
	assert.Equal(t, []string{"Field", "Value"}, fields[0])
	assert.Equal(t, []string{"file_name", "invoice.pdf"}, fields[1])
	assert.Equal(t, []string{"category", "invoice"}, fields[2])
	assert.Equal(t, []string{"model", "gpt-4o-mini"}, fields[3])
	assert.Equal(t, []string{"invoice_number", "INV-42"}, fields[4])
	assert.Equal(t, []string{"total_amount", "199.00"}, fields[5])
	assert.Equal(t, []string{"summary", "Two widgets and a gadget."}, fields[6])

	items, err := f.GetRows("Items")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"description", "quantity", "unit_price"}, items[0])
	assert.Equal(t, "Widget", items[1][0])
	assert.Equal(t, "2", items[1][1])
	assert.Equal(t, "Gadget", items[2][0])
}

func TestWriteXLSX_NoItemsOmitsItemsSheet(t *testing.T) {
	a := &domain.Analysis{FileName: "memo.pdf", Category: domain.CategoryGeneral}
	bundle := &domain.DisplayBundle{
		MainFields:  map[string]any{"document_main_topic": "Q3 planning"},
		SummaryText: "Planning memo.",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, a, bundle))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Fields"}, f.GetSheetList())
}
