package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml or .env is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.LLM.Model)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.001)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, 5, cfg.Retrieval.CatalogTopK)
	assert.Equal(t, 5, cfg.Retrieval.HistoryTopK)
	assert.Equal(t, 20000, cfg.Retrieval.TFIDFMaxFeatures)
	assert.True(t, cfg.Retrieval.TFIDFEnabled)
	assert.Equal(t, "data/lab_products.txt", cfg.Data.CatalogPath)
	assert.Equal(t, "data/competitors.csv", cfg.Data.CompetitorsPath)
	assert.Equal(t, 10, cfg.Upload.MinTextChars)
	assert.Equal(t, "pdftotext", cfg.Upload.PdfToTextPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
llm:
  model: claude-sonnet-4-5-20250929
  max_tokens: 4096
retrieval:
  catalog_top_k: 8
  tfidf_enabled: false
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.LLM.Model)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, 8, cfg.Retrieval.CatalogTopK)
	assert.False(t, cfg.Retrieval.TFIDFEnabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 5, cfg.Retrieval.HistoryTopK)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
llm:
  provider: anthropic
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("DEALDESK_LLM_MODEL", "claude-opus-4-6")
	t.Setenv("DEALDESK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-opus-4-6", cfg.LLM.Model)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DEALDESK_ANTHROPIC_KEY=sk-ant-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("DEALDESK_ANTHROPIC_KEY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-dotenv", cfg.Anthropic.Key)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("DEALDESK_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.LLM.Provider = "anthropic"
	cfg.Retrieval.CatalogTopK = 5
	cfg.Retrieval.HistoryTopK = 5
	cfg.Data.CatalogPath = "data/lab_products.txt"
	cfg.Data.HistoryPath = "data/product_history.csv"
	cfg.Data.PricingHistoryPath = "data/product_history.csv"
	cfg.Data.CompetitorsPath = "data/competitors.csv"
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateServe_Valid(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidate_UnsupportedProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.LLM.Provider = "openai"

	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `llm.provider "openai" is not supported`)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validDefaults()
	cfg.Data.CatalogPath = ""
	cfg.Data.CompetitorsPath = " "
	cfg.Retrieval.CatalogTopK = -1

	err := cfg.Validate("quote")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data.catalog_path is required")
	assert.Contains(t, err.Error(), "data.competitors_path is required")
	assert.Contains(t, err.Error(), "retrieval top_k must be >= 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
