package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"docsense/internal/display"
	"docsense/internal/domain"
)

// fieldView is the template-friendly projection of one main field.
type fieldView struct {
	Key   string
	Value string
}

// itemView is one line item row with values ordered by the shared columns.
type itemView struct {
	Values []string
}

type reportData struct {
	FileName    string
	Category    string
	Status      string
	PageCount   int
	Model       string
	AnalyzedAt  string
	Summary     string
	Fields      []fieldView
	ItemColumns []string
	Items       []itemView
	Failed      bool
	Error       string
}

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Analysis — {{.FileName}}</title>
<style>
body{font-family:system-ui,sans-serif;max-width:900px;margin:2rem auto;padding:0 1rem;color:#222;background:#fafafa}
h1{font-size:1.4rem;border-bottom:2px solid #e0e0e0;padding-bottom:.5rem}
h2{font-size:1.1rem;margin-top:1.5rem}
.meta{font-size:.85rem;color:#666}
.summary{background:#fff;border:1px solid #e0e0e0;border-radius:6px;padding:1rem;margin:1rem 0}
table{border-collapse:collapse;width:100%;background:#fff}
th,td{border:1px solid #e0e0e0;padding:.4rem .6rem;text-align:left;font-size:.9rem}
th{background:#f0f0f0}
.error{color:#b00020}
.empty{color:#999;font-style:italic}
</style></head><body>
<h1>{{.FileName}}</h1>
<p class="meta">{{.Category}} &mdash; {{.PageCount}} page(s) &mdash; {{.Model}}{{if .AnalyzedAt}} &mdash; {{.AnalyzedAt}}{{end}}</p>
{{- if .Failed}}
<p class="error">Analysis failed: {{.Error}}</p>
{{- else}}
{{- if .Summary}}
<div class="summary">{{.Summary}}</div>
{{- end}}
{{- if .Fields}}
<h2>Fields</h2>
<table><tr><th>Field</th><th>Value</th></tr>
{{- range .Fields}}
<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- if .Items}}
<h2>Items</h2>
<table><tr>{{range .ItemColumns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Items}}
<tr>{{range .Values}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
{{- end}}
{{- if and (not .Summary) (not .Fields) (not .Items)}}
<p class="empty">No text could be extracted from this document.</p>
{{- end}}
{{- end}}
</body></html>`))

// Render writes an HTML report for one analysis. A failed analysis renders
// its error; an empty one renders a placeholder.
func Render(w io.Writer, analysis *domain.Analysis) error {
	data := reportData{
		FileName:  analysis.FileName,
		Category:  string(analysis.Category),
		Status:    string(analysis.Status),
		PageCount: analysis.PageCount,
		Model:     analysis.ModelUsed,
		Failed:    analysis.Status == domain.AnalysisStatusFailed,
		Error:     analysis.Error,
	}
	if analysis.AnalyzedAt != nil {
		data.AnalyzedAt = analysis.AnalyzedAt.Format(time.RFC3339)
	}

	if len(analysis.Bundle) > 0 {
		var bundle domain.DisplayBundle
		if err := json.Unmarshal(analysis.Bundle, &bundle); err != nil {
			return fmt.Errorf("decoding display bundle: %w", err)
		}
		data.Summary = bundle.SummaryText

		flat := display.Flatten(domain.ExtractedRecord(bundle.MainFields))
		keys := make([]string, 0, len(flat))
		for key := range flat {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			data.Fields = append(data.Fields, fieldView{Key: key, Value: flat[key]})
		}

		data.ItemColumns = itemColumns(bundle.ItemRows)
		for _, item := range bundle.ItemRows {
			flatItem := display.Flatten(domain.ExtractedRecord(item))
			values := make([]string, len(data.ItemColumns))
			for i, col := range data.ItemColumns {
				values[i] = flatItem[col]
			}
			data.Items = append(data.Items, itemView{Values: values})
		}
	}

	return reportTmpl.Execute(w, data)
}

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
