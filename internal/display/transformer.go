// Package display reshapes an extracted record into the three-way split
// consumed by rendering surfaces: main fields, item rows, and a summary.
package display

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"docsense/internal/domain"
)

const itemsKey = "items"

// summaryKeys lists the summary-role keys in precedence order: the first
// non-empty value in this order wins, regardless of map iteration order.
var summaryKeys = []string{"overall_summary", "key_clauses_summary", "summary"}

// Transform partitions every top-level key of rec into exactly one of the
// bundle's three buckets. A malformed items value degrades to empty rows with
// a logged warning; it never fails the transformation.
func Transform(rec domain.ExtractedRecord) domain.DisplayBundle {
	bundle := domain.DisplayBundle{
		MainFields: make(map[string]any),
		ItemRows:   []map[string]any{},
	}

	for key, value := range rec {
		if key == itemsKey {
			bundle.ItemRows = itemRows(value)
			continue
		}
		if isSummaryKey(key) {
			continue // chosen below by fixed precedence
		}
		bundle.MainFields[key] = value
	}

	for _, key := range summaryKeys {
		if s, ok := rec[key].(string); ok && s != "" {
			bundle.SummaryText = s
			break
		}
	}

	return bundle
}

// itemRows converts the items value into an ordered row slice. Anything that
// does not form a uniform table of objects degrades to no rows.
func itemRows(value any) []map[string]any {
	list, ok := value.([]any)
	if !ok {
		if value != nil {
			log.Printf("display.Transform: items value is not a list, dropping: %T", value)
		}
		return []map[string]any{}
	}

	rows := make([]map[string]any, 0, len(list))
	for i, entry := range list {
		row, ok := entry.(map[string]any)
		if !ok {
			log.Printf("display.Transform: items[%d] is not an object, dropping all rows", i)
			return []map[string]any{}
		}
		rows = append(rows, row)
	}
	return rows
}

func isSummaryKey(key string) bool {
	for _, k := range summaryKeys {
		if key == k {
			return true
		}
	}
	return false
}

// Flatten returns a secondary one-row view of the record with display-ready
// scalar values: lists joined with ", ", nested objects JSON-encoded. The
// items key is excluded; MainFields keeps native values and is unaffected.
func Flatten(rec domain.ExtractedRecord) map[string]string {
	flat := make(map[string]string, len(rec))
	for key, value := range rec {
		if key == itemsKey {
			continue
		}
		flat[key] = flattenValue(value)
	}
	return flat
}

func flattenValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = flattenValue(e)
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}
