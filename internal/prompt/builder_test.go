package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"docsense/internal/domain"
	"docsense/internal/prompt"
)

func TestBuild_EmbedsTextVerbatim(t *testing.T) {
	text := "INVOICE #2024-001\nDate: 2024-07-12\nTotal: $5000.00 USD"
	p := prompt.Build(domain.CategoryInvoice, text)

	assert.Contains(t, p, text)
	assert.Contains(t, p, `"invoice_number"`)
	assert.Contains(t, p, `"items"`)
	assert.True(t, strings.HasSuffix(p, "just the raw JSON object."))
}

func TestBuild_CategorySchemas(t *testing.T) {
	tests := []struct {
		category domain.DocumentCategory
		marker   string
	}{
		{domain.CategoryInvoice, `"invoice_number"`},
		{domain.CategoryContract, `"key_clauses_summary"`},
		{domain.CategoryForm, `"applicant_name"`},
		{domain.CategoryGeneral, `"document_main_topic"`},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			p := prompt.Build(tt.category, "some text")
			assert.Contains(t, p, tt.marker)
			assert.Contains(t, p, "some text")
		})
	}
}

func TestBuild_UnknownCategoryFallsBackToGeneral(t *testing.T) {
	p := prompt.Build(domain.DocumentCategory("receipt"), "text")
	assert.Contains(t, p, `"document_main_topic"`)
}

func TestBuild_DoesNotTruncateLongText(t *testing.T) {
	long := strings.Repeat("lorem ipsum dolor sit amet ", 10000)
	p := prompt.Build(domain.CategoryGeneral, long)
	assert.Contains(t, p, long)
}

func TestFieldNames(t *testing.T) {
	names := prompt.FieldNames(domain.CategoryInvoice)
	assert.Contains(t, names, "invoice_number")
	assert.Contains(t, names, "items")
	assert.Contains(t, names, "summary")

	// fallback for unknown categories
	assert.Equal(t, prompt.FieldNames(domain.CategoryGeneral),
		prompt.FieldNames(domain.DocumentCategory("unknown")))
}
