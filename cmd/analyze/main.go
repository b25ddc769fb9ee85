// Command analyze runs the extraction pipeline on a single local file and
// prints the structured result as JSON, without the server or a database.
// Usage: analyze [-provider gemini|openai] [-model name] <file>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"docsense/internal/classify"
	"docsense/internal/config"
	"docsense/internal/display"
	"docsense/internal/extract"
	"docsense/internal/llm"
	"docsense/internal/llm/gemini"
	"docsense/internal/llm/openai"
	"docsense/internal/port"
	"docsense/internal/prompt"
	"docsense/internal/record"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	provider := flag.String("provider", "gemini", "LLM provider (gemini or openai)")
	model := flag.String("model", "", "model identifier (provider default when empty)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: analyze [-provider gemini|openai] [-model name] <file>")
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	llm.RegisterProvider("openai", func(c *config.ProviderConfig) (port.LLMClient, error) {
		return openai.NewClient(c), nil
	})
	llm.RegisterProvider("gemini", func(c *config.ProviderConfig) (port.LLMClient, error) {
		return gemini.NewClient(c), nil
	})

	providerCfg := cfg.LLM.Primary
	providerCfg.Provider = *provider
	if *model != "" {
		providerCfg.DefaultModel = *model
	}
	client, err := llm.NewClient(&providerCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	extractor := extract.New(cfg.Extractor)
	result, err := extractor.Extract(ctx, path)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}
	if result.IsEmpty() {
		return fmt.Errorf("no text could be extracted from %s", path)
	}

	rawText := result.Text()
	category := classify.Classify(rawText)
	log.Printf("extracted %d page(s), classified as %s", len(result.Pages), category)

	responseText, err := client.Generate(ctx, prompt.Build(category, rawText))
	if err != nil {
		return fmt.Errorf("calling model: %w", err)
	}

	rec, err := record.Parse(responseText)
	if err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	validator, err := record.NewValidator(record.ParseValidationMode(cfg.LLM.ValidationMode))
	if err != nil {
		return err
	}
	if err := validator.Validate(category, rec); err != nil {
		return err
	}

	out := struct {
		Category string `json:"category"`
		Pages    int    `json:"pages"`
		Model    string `json:"model"`
		Record   any    `json:"record"`
		Bundle   any    `json:"bundle"`
	}{
		Category: string(category),
		Pages:    len(result.Pages),
		Model:    client.Model(),
		Record:   rec,
		Bundle:   display.Transform(rec),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
