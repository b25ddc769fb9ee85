package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"time"

	"docsense/internal/display"
	"docsense/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the header row for the analyses listing export.
var columns = []string{
	"File Name",
	"Status",
	"Category",
	"Pages",
	"Model",
	"Summary",
	"Created At",
	"Analyzed At",
}

// Writer wraps csv.Writer for exporting analyses as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteAnalyses converts a batch of analyses to CSV rows and writes them.
func (w *Writer) WriteAnalyses(analyses []domain.Analysis) error {
	for i := range analyses {
		row := analysisToRow(&analyses[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// analysisToRow converts a single analysis to a string slice matching columns.
// Result columns are left empty when the analysis has not completed.
func analysisToRow(a *domain.Analysis) []string {
	row := make([]string, len(columns))
	row[0] = a.FileName
	row[1] = string(a.Status)
	row[2] = string(a.Category)
	row[3] = strconv.Itoa(a.PageCount)
	row[4] = a.ModelUsed
	row[6] = a.CreatedAt.Format(time.RFC3339)
	row[7] = formatTime(a.AnalyzedAt)

	if a.Status != domain.AnalysisStatusCompleted || len(a.Bundle) == 0 {
		return row
	}
	var bundle domain.DisplayBundle
	if err := json.Unmarshal(a.Bundle, &bundle); err != nil {
		return row
	}
	row[5] = bundle.SummaryText
	return row
}

// WriteBundle writes one analysis result as a field table followed by the
// line items table, separated by a blank row.
func (w *Writer) WriteBundle(bundle *domain.DisplayBundle) error {
	if err := w.csv.Write([]string{"Field", "Value"}); err != nil {
		return err
	}
	flat := display.Flatten(domain.ExtractedRecord(bundle.MainFields))
	for _, key := range sortedKeys(flat) {
		if err := w.csv.Write([]string{key, flat[key]}); err != nil {
			return err
		}
	}
	if bundle.SummaryText != "" {
		if err := w.csv.Write([]string{"summary", bundle.SummaryText}); err != nil {
			return err
		}
	}

	if len(bundle.ItemRows) == 0 {
		return nil
	}
	if err := w.csv.Write([]string{""}); err != nil {
		return err
	}

	itemCols := itemColumns(bundle.ItemRows)
	if err := w.csv.Write(itemCols); err != nil {
		return err
	}
	for _, item := range bundle.ItemRows {
		flatItem := display.Flatten(domain.ExtractedRecord(item))
		row := make([]string, len(itemCols))
		for i, col := range itemCols {
			row[i] = flatItem[col]
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// itemColumns returns the sorted union of keys across all item rows so that
// rows with missing fields still line up.
func itemColumns(rows []map[string]any) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			seen[key] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for key := range seen {
		cols = append(cols, key)
	}
	sort.Strings(cols)
	return cols
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
