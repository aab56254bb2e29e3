package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Upload    UploadConfig    `yaml:"upload" mapstructure:"upload"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects and tunes the JSON generator.
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"`
	Model             string  `yaml:"model" mapstructure:"model"`
	Temperature       float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// RetrievalConfig tunes catalog and history retrieval.
type RetrievalConfig struct {
	CatalogTopK      int  `yaml:"catalog_top_k" mapstructure:"catalog_top_k"`
	HistoryTopK      int  `yaml:"history_top_k" mapstructure:"history_top_k"`
	TFIDFMaxFeatures int  `yaml:"tfidf_max_features" mapstructure:"tfidf_max_features"`
	TFIDFEnabled     bool `yaml:"tfidf_enabled" mapstructure:"tfidf_enabled"`
}

// DataConfig points at the reference datasets loaded at startup.
type DataConfig struct {
	CatalogPath        string `yaml:"catalog_path" mapstructure:"catalog_path"`
	HistoryPath        string `yaml:"history_path" mapstructure:"history_path"`
	PricingHistoryPath string `yaml:"pricing_history_path" mapstructure:"pricing_history_path"`
	CompetitorsPath    string `yaml:"competitors_path" mapstructure:"competitors_path"`
}

// UploadConfig bounds document uploads.
type UploadConfig struct {
	MaxBytes      int64  `yaml:"max_bytes" mapstructure:"max_bytes"`
	MinTextChars  int    `yaml:"min_text_chars" mapstructure:"min_text_chars"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, file, and environment.
func Load() (*Config, error) {
	// .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEALDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.model", "claude-haiku-4-5-20251001")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 2048)
	v.SetDefault("llm.requests_per_second", 2.0)
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.timeout_secs", 60)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("retrieval.catalog_top_k", 5)
	v.SetDefault("retrieval.history_top_k", 5)
	v.SetDefault("retrieval.tfidf_max_features", 20000)
	v.SetDefault("retrieval.tfidf_enabled", true)
	v.SetDefault("data.catalog_path", "data/lab_products.txt")
	v.SetDefault("data.history_path", "data/product_history.csv")
	v.SetDefault("data.pricing_history_path", "data/product_history.csv")
	v.SetDefault("data.competitors_path", "data/competitors.csv")
	v.SetDefault("upload.max_bytes", 20<<20)
	v.SetDefault("upload.min_text_chars", 10)
	v.SetDefault("upload.pdftotext_path", "pdftotext")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate rejects configurations the given command cannot run with. Every
// problem is reported, not just the first.
func (c *Config) Validate(mode string) error {
	var problems []string

	if !strings.EqualFold(c.LLM.Provider, "anthropic") {
		problems = append(problems, fmt.Sprintf("llm.provider %q is not supported", c.LLM.Provider))
	}
	if c.Retrieval.CatalogTopK < 0 || c.Retrieval.HistoryTopK < 0 {
		problems = append(problems, "retrieval top_k must be >= 0")
	}
	if c.Retrieval.TFIDFMaxFeatures < 0 {
		problems = append(problems, "retrieval.tfidf_max_features must be >= 0")
	}
	if strings.TrimSpace(c.Data.CatalogPath) == "" {
		problems = append(problems, "data.catalog_path is required")
	}
	if strings.TrimSpace(c.Data.HistoryPath) == "" {
		problems = append(problems, "data.history_path is required")
	}
	if strings.TrimSpace(c.Data.PricingHistoryPath) == "" {
		problems = append(problems, "data.pricing_history_path is required")
	}
	if strings.TrimSpace(c.Data.CompetitorsPath) == "" {
		problems = append(problems, "data.competitors_path is required")
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Upload.MinTextChars < 0 {
			problems = append(problems, "upload.min_text_chars must be >= 0")
		}
	case "analyze", "quote", "catalog":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
