// Package prompt builds category-specific extraction prompts. Each category
// has one static template declaring the expected JSON schema inline; the full
// document text is embedded verbatim, never truncated here.
package prompt

import (
	"strings"

	"docsense/internal/domain"
)

const (
	textOpen  = "Document Text:\n---\n"
	textClose = "\n---\n\nReturn ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object."
)

// templates maps each category to its instruction block. Adding a category is
// a data addition here plus a schema entry in schema.go.
var templates = map[domain.DocumentCategory]string{
	domain.CategoryInvoice: `You are an expert at extracting structured information from invoices.
Extract the following entities from the provided invoice text and present them as a JSON object.
Ensure the JSON is valid and complete. If a field is not found, set its value to null.

Expected JSON schema:
{
  "invoice_number": "string | null",
  "date": "string (YYYY-MM-DD) | null",
  "vendor_name": "string | null",
  "customer_name": "string | null",
  "total_amount": "string (e.g. '123.45') | null",
  "currency": "string (e.g. 'USD', 'EUR') | null",
  "items": [
    {
      "description": "string | null",
      "quantity": "number | null",
      "unit_price": "string | null",
      "line_total": "string | null"
    }
  ],
  "payment_terms": "string | null",
  "summary": "A concise one-sentence summary of the invoice, including vendor, total, and purpose."
}`,

	domain.CategoryContract: `You are an expert at extracting key information from and summarizing legal contracts.
Extract the following entities from the provided contract text and present them as a JSON object.
Ensure the JSON is valid and complete. If a field is not found, set its value to null.

Expected JSON schema:
{
  "contract_title": "string | null",
  "parties": "array of strings (names of parties involved) | null",
  "effective_date": "string (YYYY-MM-DD) | null",
  "termination_date": "string (YYYY-MM-DD) | null",
  "governing_law": "string | null",
  "key_clauses_summary": "A brief summary (2-3 sentences) of the most important clauses (scope of work, payment terms, liability, intellectual property).",
  "overall_summary": "A one-paragraph overall summary of the contract's purpose, main agreements, and duration."
}`,

	domain.CategoryForm: `You are an expert at extracting information from forms.
Extract key fields from the provided form text and present them as a JSON object.
Identify common form fields like name, address, phone, email, and date of birth, plus any fields specific to the form's purpose.
Ensure the JSON is valid and complete. If a field is not found, set its value to null.

Expected JSON schema (adapt the fields to the detected form content):
{
  "form_type": "string (e.g. 'Application Form', 'Registration Form') | null",
  "applicant_name": "string | null",
  "address": "string | null",
  "phone_number": "string | null",
  "email": "string | null",
  "date_of_birth": "string (YYYY-MM-DD) | null",
  "purpose_of_form": "string | null",
  "summary": "A concise summary of the form's content and purpose."
}`,

	domain.CategoryGeneral: `You are a document analysis assistant capable of understanding and summarizing any document.
Extract the most important entities and provide a concise summary of the provided text as a JSON object.
Ensure the JSON is valid and complete. If a field is not found or not applicable, set its value to null.

Expected JSON schema:
{
  "document_main_topic": "string | null",
  "key_entities": "array of strings (important names, places, dates, concepts) | null",
  "main_points": "array of strings (bullet points of key takeaways) | null",
  "overall_summary": "A one-paragraph comprehensive summary of the document's content and purpose."
}`,
}

// Build returns the extraction prompt for the given category with the document
// text embedded verbatim. Unknown categories fall back to the general template.
func Build(category domain.DocumentCategory, rawText string) string {
	tpl, ok := templates[category]
	if !ok {
		tpl = templates[domain.CategoryGeneral]
	}

	var b strings.Builder
	b.Grow(len(tpl) + len(rawText) + len(textOpen) + len(textClose) + 2)
	b.WriteString(tpl)
	b.WriteString("\n\n")
	b.WriteString(textOpen)
	b.WriteString(rawText)
	b.WriteString(textClose)
	return b.String()
}
