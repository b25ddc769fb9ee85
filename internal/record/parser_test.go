package record_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsense/internal/domain"
	"docsense/internal/record"
)

func TestParse_ValidObject(t *testing.T) {
	rec, err := record.Parse(`{"invoice_number":"INV-001","total_amount":"123.45","items":[{"description":"X"}]}`)
	require.NoError(t, err)

	assert.Equal(t, "INV-001", rec["invoice_number"])
	assert.Equal(t, "123.45", rec["total_amount"])
	assert.Len(t, rec["items"], 1)
}

func TestParse_PreservesNumbers(t *testing.T) {
	rec, err := record.Parse(`{"quantity": 2, "rate": 10.50}`)
	require.NoError(t, err)

	assert.Equal(t, json.Number("2"), rec["quantity"])
	assert.Equal(t, json.Number("10.50"), rec["rate"])
}

func TestParse_StripsCodeFence(t *testing.T) {
	fenced := "```json\n{\"vendor_name\":\"Acme\"}\n```"
	rec, err := record.Parse(fenced)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec["vendor_name"])

	bare := "```\n{\"vendor_name\":\"Acme\"}\n```"
	rec, err = record.Parse(bare)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec["vendor_name"])
}

func TestParse_RejectsNonObject(t *testing.T) {
	for _, input := range []string{
		"not json",
		"[1,2,3]",
		`"a bare string"`,
		"42",
		"null",
		`{"a":1} trailing garbage`,
		`{"a":1}{"b":2}`,
		"",
	} {
		rec, err := record.Parse(input)
		assert.Nil(t, rec, "input %q", input)

		var malformed *record.MalformedResponseError
		require.ErrorAs(t, err, &malformed, "input %q", input)
		assert.Equal(t, input, malformed.Raw)
	}
}

func TestParse_ToleratesUnexpectedFields(t *testing.T) {
	rec, err := record.Parse(`{"completely_unexpected":true,"nested":{"deep":"value"}}`)
	require.NoError(t, err)
	assert.Equal(t, true, rec["completely_unexpected"])
}

func TestValidator_LenientAcceptsDrift(t *testing.T) {
	v, err := record.NewValidator(record.ModeLenient)
	require.NoError(t, err)

	rec := domain.ExtractedRecord{"invoice_number": 12345} // number where string expected
	assert.NoError(t, v.Validate(domain.CategoryInvoice, rec))
}

func TestValidator_StrictRejectsDrift(t *testing.T) {
	v, err := record.NewValidator(record.ModeStrict)
	require.NoError(t, err)

	rec := domain.ExtractedRecord{"invoice_number": 12345}
	assert.Error(t, v.Validate(domain.CategoryInvoice, rec))

	ok := domain.ExtractedRecord{"invoice_number": "INV-1", "extra_field": "tolerated"}
	assert.NoError(t, v.Validate(domain.CategoryInvoice, ok))
}

func TestParseValidationMode(t *testing.T) {
	assert.Equal(t, record.ModeStrict, record.ParseValidationMode("strict"))
	assert.Equal(t, record.ModeOff, record.ParseValidationMode("off"))
	assert.Equal(t, record.ModeLenient, record.ParseValidationMode("lenient"))
	assert.Equal(t, record.ModeLenient, record.ParseValidationMode(""))
	assert.Equal(t, record.ModeLenient, record.ParseValidationMode("bogus"))
}
