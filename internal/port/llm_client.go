package port

import "context"

// LLMClient abstracts a language-model provider. Implementations request
// deterministic, JSON-object output and return the raw response text.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Model returns the model identifier the client is configured with.
	Model() string
}
