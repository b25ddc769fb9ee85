package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Extractor ExtractorConfig
	LLM       LLMConfig
	Upload    UploadConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for document archival.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ExtractorConfig holds text extraction settings. Binary fields name the
// external tools invoked for the OCR fallback path.
type ExtractorConfig struct {
	Pdftoppm        string `mapstructure:"pdftoppm"`
	Tesseract       string `mapstructure:"tesseract"`
	TesseractLang   string `mapstructure:"tesseract_lang"`
	DPI             int    `mapstructure:"dpi"`
	PageConcurrency int    `mapstructure:"page_concurrency"`
	WorkDir         string `mapstructure:"work_dir"`
}

// ProviderConfig holds settings for a single LLM provider.
type ProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds language-model gateway settings.
type LLMConfig struct {
	Primary        ProviderConfig `mapstructure:"primary"`
	MaxRetries     int            `mapstructure:"max_retries"`
	RetryBaseDelay time.Duration  `mapstructure:"retry_base_delay"`
	ValidationMode string         `mapstructure:"validation_mode"` // "lenient" | "strict" | "off"
}

// UploadConfig holds upload limits and temp storage settings.
type UploadConfig struct {
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	TempDir       string `mapstructure:"temp_dir"`
}

// Load reads configuration from environment variables with the DOCSENSE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind environment variables explicitly for nested keys
	for _, key := range []string{
		"server.port", "server.read_timeout", "server.write_timeout", "server.environment",
		"db.host", "db.port", "db.user", "db.password", "db.name", "db.sslmode", "db.max_open", "db.max_idle",
		"s3.region", "s3.bucket", "s3.endpoint", "s3.access_key", "s3.secret_key", "s3.presign_expiry",
		"extractor.pdftoppm", "extractor.tesseract", "extractor.tesseract_lang",
		"extractor.dpi", "extractor.page_concurrency", "extractor.work_dir",
		"llm.primary.provider", "llm.primary.api_key", "llm.primary.default_model", "llm.primary.timeout_secs",
		"llm.max_retries", "llm.retry_base_delay", "llm.validation_mode",
		"upload.max_file_size_mb", "upload.temp_dir",
	} {
		env := "DOCSENSE_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		_ = v.BindEnv(key, env)
	}

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docsense")
	v.SetDefault("db.password", "docsense_secret")
	v.SetDefault("db.name", "docsense_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docsense-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Extractor defaults
	v.SetDefault("extractor.pdftoppm", "pdftoppm")
	v.SetDefault("extractor.tesseract", "tesseract")
	v.SetDefault("extractor.tesseract_lang", "eng")
	v.SetDefault("extractor.dpi", 300)
	v.SetDefault("extractor.page_concurrency", 4)
	v.SetDefault("extractor.work_dir", "")

	// LLM defaults
	v.SetDefault("llm.primary.provider", "gemini")
	v.SetDefault("llm.primary.api_key", "")
	v.SetDefault("llm.primary.default_model", "")
	v.SetDefault("llm.primary.timeout_secs", 120)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_base_delay", "2s")
	v.SetDefault("llm.validation_mode", "lenient")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 50)
	v.SetDefault("upload.temp_dir", "")

	cfg := &Config{}

	// PaaS platforms set a PORT env var. Use it if DOCSENSE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCSENSE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Extractor = ExtractorConfig{
		Pdftoppm:        v.GetString("extractor.pdftoppm"),
		Tesseract:       v.GetString("extractor.tesseract"),
		TesseractLang:   v.GetString("extractor.tesseract_lang"),
		DPI:             v.GetInt("extractor.dpi"),
		PageConcurrency: v.GetInt("extractor.page_concurrency"),
		WorkDir:         v.GetString("extractor.work_dir"),
	}
	cfg.LLM = LLMConfig{
		Primary: ProviderConfig{
			Provider:     v.GetString("llm.primary.provider"),
			APIKey:       v.GetString("llm.primary.api_key"),
			DefaultModel: v.GetString("llm.primary.default_model"),
			TimeoutSecs:  v.GetInt("llm.primary.timeout_secs"),
		},
		MaxRetries:     v.GetInt("llm.max_retries"),
		RetryBaseDelay: v.GetDuration("llm.retry_base_delay"),
		ValidationMode: v.GetString("llm.validation_mode"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		TempDir:       v.GetString("upload.temp_dir"),
	}

	return cfg, nil
}
