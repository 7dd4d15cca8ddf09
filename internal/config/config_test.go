package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

var allVars = []string{
	EnvEmbeddingProvider, EnvLLMProvider, EnvOpenAIAPIKey, EnvOpenAIBaseURL, EnvGoogleAPIKey,
	EnvOpenAIEmbeddingModel, EnvGeminiEmbeddingModel, EnvOpenAIModel, EnvGeminiModel,
	EnvCollectionName, EnvDatabaseURL, EnvPDFPath, EnvS3Endpoint, EnvS3Region,
	EnvS3AccessKeyID, EnvS3SecretAccessKey, EnvLLMTimeoutSeconds, EnvLogLevel, EnvLogFile, EnvLogConsole, EnvEnvFile,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range allVars {
		t.Setenv(name, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.EmbeddingProvider)
	require.Equal(t, "gemini", cfg.LLMProvider)
	require.Equal(t, DefaultOpenAIEmbeddingModel, cfg.OpenAI.EmbeddingModel)
	require.Equal(t, DefaultGeminiEmbeddingModel, cfg.Gemini.EmbeddingModel)
	require.Equal(t, DefaultOpenAIModel, cfg.OpenAI.Model)
	require.Equal(t, DefaultGeminiModel, cfg.Gemini.Model)
	require.Equal(t, DefaultOpenAIBaseURL, cfg.OpenAI.BaseURL)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.True(t, cfg.LogConfig.Console)
	require.Zero(t, cfg.LLMTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvEmbeddingProvider, "GEMINI")
	t.Setenv(EnvLLMProvider, " OpenAI ")
	t.Setenv(EnvGeminiEmbeddingModel, "models/text-embedding-004")
	t.Setenv(EnvOpenAIModel, "gpt-4o-mini")
	t.Setenv(EnvLLMTimeoutSeconds, "30")
	t.Setenv(EnvLogConsole, "false")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "gemini", cfg.EmbeddingProvider)
	require.Equal(t, "openai", cfg.LLMProvider)
	require.Equal(t, "models/text-embedding-004", cfg.EmbeddingModel(ProviderGemini))
	require.Equal(t, "gpt-4o-mini", cfg.GenerationModel(ProviderOpenAI))
	require.Equal(t, 30, cfg.LLMTimeout)
	require.False(t, cfg.LogConfig.Console)
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLLMTimeoutSeconds, "soon")
	_, err := FromEnv()
	require.ErrorIs(t, err, appErr.ErrConfiguration)
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		value string
		want  Provider
	}{
		{value: "openai", want: ProviderOpenAI},
		{value: "OpenAI", want: ProviderOpenAI},
		{value: "GEMINI", want: ProviderGemini},
		{value: " gemini ", want: ProviderGemini},
	}
	for _, tt := range tests {
		got, err := ParseProvider(EnvLLMProvider, tt.value)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := ParseProvider(EnvEmbeddingProvider, "anthropic")
	require.ErrorIs(t, err, appErr.ErrConfiguration)
	require.Contains(t, err.Error(), "anthropic")
	require.Contains(t, err.Error(), EnvEmbeddingProvider)
}

func TestValidateIngest(t *testing.T) {
	base := func() *Config {
		return &Config{
			EmbeddingProvider: "openai",
			LLMProvider:       "gemini",
			OpenAI:            OpenAIConfig{APIKey: "sk-test"},
			CollectionName:    "docs",
			DatabaseURL:       "postgres://localhost/rag",
			PDFPath:           "document.pdf",
		}
	}
	require.NoError(t, base().ValidateIngest())

	tests := []struct {
		name    string
		mutate  func(c *Config)
		missing string
	}{
		{name: "collection", mutate: func(c *Config) { c.CollectionName = "" }, missing: EnvCollectionName},
		{name: "database", mutate: func(c *Config) { c.DatabaseURL = "" }, missing: EnvDatabaseURL},
		{name: "pdf path", mutate: func(c *Config) { c.PDFPath = " " }, missing: EnvPDFPath},
		{name: "openai key", mutate: func(c *Config) { c.OpenAI.APIKey = "" }, missing: EnvOpenAIAPIKey},
		{name: "google key", mutate: func(c *Config) { c.EmbeddingProvider = "gemini" }, missing: EnvGoogleAPIKey},
		{
			name: "first missing wins",
			mutate: func(c *Config) {
				c.DatabaseURL = ""
				c.PDFPath = ""
				c.OpenAI.APIKey = ""
			},
			missing: EnvDatabaseURL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.ValidateIngest()
			require.ErrorIs(t, err, appErr.ErrConfiguration)
			require.Contains(t, err.Error(), tt.missing)
		})
	}

	// generation provider plays no part in ingestion
	cfg := base()
	cfg.LLMProvider = "unknown"
	require.NoError(t, cfg.ValidateIngest())

	cfg = base()
	cfg.EmbeddingProvider = "cohere"
	err := cfg.ValidateIngest()
	require.ErrorIs(t, err, appErr.ErrConfiguration)
	require.Contains(t, err.Error(), "cohere")
}

func TestValidateChat(t *testing.T) {
	base := func() *Config {
		return &Config{
			EmbeddingProvider: "openai",
			LLMProvider:       "gemini",
			OpenAI:            OpenAIConfig{APIKey: "sk-test"},
			Gemini:            GeminiConfig{APIKey: "g-test"},
			CollectionName:    "docs",
			DatabaseURL:       "postgres://localhost/rag",
		}
	}
	require.NoError(t, base().ValidateChat())

	tests := []struct {
		name    string
		mutate  func(c *Config)
		missing string
	}{
		{name: "collection", mutate: func(c *Config) { c.CollectionName = "" }, missing: EnvCollectionName},
		{name: "database", mutate: func(c *Config) { c.DatabaseURL = " " }, missing: EnvDatabaseURL},
		{name: "embedding key", mutate: func(c *Config) { c.OpenAI.APIKey = "" }, missing: EnvOpenAIAPIKey},
		{name: "llm key", mutate: func(c *Config) { c.Gemini.APIKey = "" }, missing: EnvGoogleAPIKey},
		{name: "openai llm key", mutate: func(c *Config) {
			c.EmbeddingProvider = "gemini"
			c.LLMProvider = "openai"
			c.OpenAI.APIKey = ""
		}, missing: EnvOpenAIAPIKey},
		{
			name: "first missing wins",
			mutate: func(c *Config) {
				c.CollectionName = ""
				c.DatabaseURL = ""
				c.Gemini.APIKey = ""
			},
			missing: EnvCollectionName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.ValidateChat()
			require.ErrorIs(t, err, appErr.ErrConfiguration)
			require.Contains(t, err.Error(), tt.missing)
		})
	}

	// the pdf source plays no part in chat
	cfg := base()
	cfg.PDFPath = ""
	require.NoError(t, cfg.ValidateChat())

	cfg = base()
	cfg.LLMProvider = "llama"
	err := cfg.ValidateChat()
	require.ErrorIs(t, err, appErr.ErrConfiguration)
	require.Contains(t, err.Error(), "llama")
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCollectionName, "from-process")
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	content := "PG_VECTOR_COLLECTION_NAME=from-file\nDATABASE_URL=postgres://file/rag\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	t.Cleanup(func() { os.Unsetenv(EnvDatabaseURL) })
	require.NoError(t, os.Unsetenv(EnvDatabaseURL))

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, "from-process", cfg.CollectionName)
	require.Equal(t, "postgres://file/rag", cfg.DatabaseURL)
}

func TestLoadIgnoresMissingDotEnv(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoadUsesEnvFileVariable(t *testing.T) {
	clearEnv(t)
	require.Equal(t, DefaultEnvFile, EnvFile())

	file := filepath.Join(t.TempDir(), "rag.env")
	require.NoError(t, os.WriteFile(file, []byte("PDF_PATH=from-env-file.pdf\n"), 0o600))
	t.Setenv(EnvEnvFile, file)
	require.NoError(t, os.Unsetenv(EnvPDFPath))
	t.Cleanup(func() { os.Unsetenv(EnvPDFPath) })

	require.Equal(t, file, EnvFile())
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-env-file.pdf", cfg.PDFPath)
}
