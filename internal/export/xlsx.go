package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"docsense/internal/display"
	"docsense/internal/domain"
)

const (
	fieldsSheet = "Fields"
	itemsSheet  = "Items"
)

// WriteXLSX writes one analysis result as a workbook: a Fields sheet with
// the flattened main fields and summary, and an Items sheet when the record
// carried line items.
func WriteXLSX(w io.Writer, analysis *domain.Analysis, bundle *domain.DisplayBundle) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", fieldsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	rows := [][]any{
		{"Field", "Value"},
		{"file_name", analysis.FileName},
		{"category", string(analysis.Category)},
		{"model", analysis.ModelUsed},
	}
	flat := display.Flatten(domain.ExtractedRecord(bundle.MainFields))
	for _, key := range sortedKeys(flat) {
		rows = append(rows, []any{key, flat[key]})
	}
	if bundle.SummaryText != "" {
		rows = append(rows, []any{"summary", bundle.SummaryText})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("building cell name: %w", err)
		}
		if err := f.SetSheetRow(fieldsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing fields row %d: %w", i+1, err)
		}
	}

	if len(bundle.ItemRows) > 0 {
		if _, err := f.NewSheet(itemsSheet); err != nil {
			return fmt.Errorf("creating items sheet: %w", err)
		}
		cols := itemColumns(bundle.ItemRows)
		header := make([]any, len(cols))
		for i, col := range cols {
			header[i] = col
		}
		if err := f.SetSheetRow(itemsSheet, "A1", &header); err != nil {
			return fmt.Errorf("writing items header: %w", err)
		}
		for i, item := range bundle.ItemRows {
			flatItem := display.Flatten(domain.ExtractedRecord(item))
			row := make([]any, len(cols))
			for j, col := range cols {
				row[j] = flatItem[col]
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return fmt.Errorf("building cell name: %w", err)
			}
			if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
				return fmt.Errorf("writing items row %d: %w", i+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
