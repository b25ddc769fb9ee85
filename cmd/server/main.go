package main

import (
	"fmt"
	"log"

	"docsense/internal/config"
	"docsense/internal/extract"
	"docsense/internal/handler"
	"docsense/internal/llm"
	"docsense/internal/llm/gemini"
	"docsense/internal/llm/openai"
	"docsense/internal/port"
	"docsense/internal/record"
	"docsense/internal/repository/postgres"
	"docsense/internal/router"
	"docsense/internal/service"
	s3storage "docsense/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func registerProviders() {
	llm.RegisterProvider("openai", func(cfg *config.ProviderConfig) (port.LLMClient, error) {
		return openai.NewClient(cfg), nil
	})
	llm.RegisterProvider("gemini", func(cfg *config.ProviderConfig) (port.LLMClient, error) {
		return gemini.NewClient(cfg), nil
	})
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	analysisRepo := postgres.NewAnalysisRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	registerProviders()
	llmClient, err := llm.NewClient(&cfg.LLM.Primary)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	validator, err := record.NewValidator(record.ParseValidationMode(cfg.LLM.ValidationMode))
	if err != nil {
		return fmt.Errorf("failed to compile record schemas: %w", err)
	}

	extractor := extract.New(cfg.Extractor)

	analysisSvc := service.NewAnalysisService(
		analysisRepo, s3Client, extractor, llmClient, validator,
		&cfg.S3, &cfg.Upload, &cfg.LLM,
	)

	analysisH := handler.NewAnalysisHandler(analysisSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(analysisH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
