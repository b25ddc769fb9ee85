// Package classify infers a document category from extracted text using a
// fixed, ordered keyword heuristic. It only selects which extraction prompt
// to use, so deliberately coarse rules are fine here.
package classify

import (
	"strings"

	"docsense/internal/domain"
)

type rule struct {
	category domain.DocumentCategory
	keywords []string
}

// rules are evaluated in order; the first matching rule wins.
var rules = []rule{
	{domain.CategoryInvoice, []string{"invoice", "bill"}},
	{domain.CategoryContract, []string{"contract", "agreement", "terms and conditions"}},
	{domain.CategoryForm, []string{"form", "application"}},
}

// Classify returns the category for the given raw text. It is total and
// deterministic: every input maps to exactly one category, falling back to
// CategoryGeneral when no rule matches.
func Classify(rawText string) domain.DocumentCategory {
	lower := strings.ToLower(rawText)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return domain.CategoryGeneral
}
