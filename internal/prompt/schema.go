package prompt

import "docsense/internal/domain"

// fieldNames lists the fields each template asks for, in template order. The
// sets shape the prompt and drive optional response validation; they are never
// a hard contract on what the model returns.
var fieldNames = map[domain.DocumentCategory][]string{
	domain.CategoryInvoice: {
		"invoice_number", "date", "vendor_name", "customer_name",
		"total_amount", "currency", "items", "payment_terms", "summary",
	},
	domain.CategoryContract: {
		"contract_title", "parties", "effective_date", "termination_date",
		"governing_law", "key_clauses_summary", "overall_summary",
	},
	domain.CategoryForm: {
		"form_type", "applicant_name", "address", "phone_number", "email",
		"date_of_birth", "purpose_of_form", "summary",
	},
	domain.CategoryGeneral: {
		"document_main_topic", "key_entities", "main_points", "overall_summary",
	},
}

// FieldNames returns the expected field names for a category. Unknown
// categories fall back to the general set.
func FieldNames(category domain.DocumentCategory) []string {
	names, ok := fieldNames[category]
	if !ok {
		names = fieldNames[domain.CategoryGeneral]
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// jsonSchemas holds a JSON Schema document per category for optional response
// validation. Fields are nullable and extra properties are allowed. The
// schemas check shape, not completeness.
var jsonSchemas = map[domain.DocumentCategory]string{
	domain.CategoryInvoice: `{
  "type": "object",
  "properties": {
    "invoice_number": {"type": ["string", "null"]},
    "date": {"type": ["string", "null"]},
    "vendor_name": {"type": ["string", "null"]},
    "customer_name": {"type": ["string", "null"]},
    "total_amount": {"type": ["string", "number", "null"]},
    "currency": {"type": ["string", "null"]},
    "items": {
      "type": ["array", "null"],
      "items": {"type": "object"}
    },
    "payment_terms": {"type": ["string", "null"]},
    "summary": {"type": ["string", "null"]}
  }
}`,
	domain.CategoryContract: `{
  "type": "object",
  "properties": {
    "contract_title": {"type": ["string", "null"]},
    "parties": {"type": ["array", "null"], "items": {"type": "string"}},
    "effective_date": {"type": ["string", "null"]},
    "termination_date": {"type": ["string", "null"]},
    "governing_law": {"type": ["string", "null"]},
    "key_clauses_summary": {"type": ["string", "null"]},
    "overall_summary": {"type": ["string", "null"]}
  }
}`,
	domain.CategoryForm: `{
  "type": "object",
  "properties": {
    "form_type": {"type": ["string", "null"]},
    "applicant_name": {"type": ["string", "null"]},
    "address": {"type": ["string", "null"]},
    "phone_number": {"type": ["string", "null"]},
    "email": {"type": ["string", "null"]},
    "date_of_birth": {"type": ["string", "null"]},
    "purpose_of_form": {"type": ["string", "null"]},
    "summary": {"type": ["string", "null"]}
  }
}`,
	domain.CategoryGeneral: `{
  "type": "object",
  "properties": {
    "document_main_topic": {"type": ["string", "null"]},
    "key_entities": {"type": ["array", "null"], "items": {"type": "string"}},
    "main_points": {"type": ["array", "null"], "items": {"type": "string"}},
    "overall_summary": {"type": ["string", "null"]}
  }
}`,
}

// JSONSchema returns the JSON Schema source for a category. Unknown categories
// fall back to the general schema.
func JSONSchema(category domain.DocumentCategory) string {
	s, ok := jsonSchemas[category]
	if !ok {
		s = jsonSchemas[domain.CategoryGeneral]
	}
	return s
}
