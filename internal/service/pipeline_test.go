package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docsense/internal/config"
	"docsense/internal/domain"
	openai "docsense/internal/llm/openai"
	"docsense/internal/record"
	"docsense/internal/service"
	"docsense/mocks"
)

// Exercises the full pipeline against a fake provider endpoint: extracted
// invoice text is classified, the invoice prompt is sent to the model, and
// the JSON response comes back parsed, validated, and split for display.
func TestPipeline_InvoiceEndToEnd(t *testing.T) {
	modelJSON := `{
		"invoice_number": "INV-2025-001",
		"invoice_date": "2025-01-15",
		"vendor_name": "Acme Corp",
		"customer_name": "Globex Inc",
		"total_amount": 1250.50,
		"currency": "USD",
		"items": [
			{"description": "Consulting", "quantity": 10, "unit_price": 100, "total": 1000},
			{"description": "Travel", "quantity": 1, "unit_price": 250.50, "total": 250.50}
		],
		"payment_terms": "Net 30",
		"summary": "Consulting invoice from Acme Corp to Globex Inc."
	}`

	var sentPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		messages := reqBody["messages"].([]interface{})
		sentPrompt = messages[1].(map[string]interface{})["content"].(string)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{
					"message":       map[string]interface{}{"content": modelJSON},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer server.Close()

	client := openai.NewClientWithEndpoint(&config.ProviderConfig{
		Provider: "openai",
		APIKey:   "test-key",
	}, server.URL)

	repo := new(mocks.MockAnalysisRepository)
	extractor := new(mocks.MockTextExtractor)
	s3cfg, uploadCfg, llmCfg := testConfigs(t)
	validator, err := record.NewValidator(record.ModeStrict)
	require.NoError(t, err)
	svc := service.NewAnalysisService(repo, new(mocks.MockObjectStorage), extractor, client, validator, s3cfg, uploadCfg, llmCfg)

	analysis := pendingAnalysis(t)
	rawText := "INVOICE\nAcme Corp\nBill To: Globex Inc\nInvoice #INV-2025-001\nTotal: $1,250.50"

	repo.On("GetByID", mock.Anything, analysis.ID).Return(analysis, nil)
	extractor.On("Extract", mock.Anything, analysis.FilePath).Return(extractionResult(rawText), nil)
	repo.On("UpdateResult", mock.Anything, analysis).Return(nil)

	result, err := svc.Analyze(context.Background(), analysis.ID)
	require.NoError(t, err)

	// Classification picked the invoice prompt and the document text rode along.
	assert.Equal(t, domain.CategoryInvoice, result.Category)
	assert.Contains(t, sentPrompt, "invoice_number")
	assert.Contains(t, sentPrompt, rawText)
	assert.True(t, strings.Contains(sentPrompt, "Return ONLY valid JSON"))

	assert.Equal(t, domain.AnalysisStatusCompleted, result.Status)
	assert.Equal(t, "gpt-4o-mini", result.ModelUsed)

	var rec domain.ExtractedRecord
	require.NoError(t, json.Unmarshal(result.Record, &rec))
	assert.Equal(t, "INV-2025-001", rec["invoice_number"])

	var bundle domain.DisplayBundle
	require.NoError(t, json.Unmarshal(result.Bundle, &bundle))
	assert.Equal(t, "Consulting invoice from Acme Corp to Globex Inc.", bundle.SummaryText)
	require.Len(t, bundle.ItemRows, 2)
	assert.Equal(t, "Consulting", bundle.ItemRows[0]["description"])
	assert.NotContains(t, bundle.MainFields, "items")
	assert.NotContains(t, bundle.MainFields, "summary")
}
