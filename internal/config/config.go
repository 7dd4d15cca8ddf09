package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

const (
	EnvEmbeddingProvider    = "EMBEDDING_PROVIDER"
	EnvLLMProvider          = "LLM_PROVIDER"
	EnvOpenAIAPIKey         = "OPENAI_API_KEY"
	EnvOpenAIBaseURL        = "OPENAI_BASE_URL"
	EnvGoogleAPIKey         = "GOOGLE_API_KEY"
	EnvOpenAIEmbeddingModel = "OPENAI_EMBEDDING_MODEL"
	EnvGeminiEmbeddingModel = "GEMINI_EMBEDDING_MODEL"
	EnvOpenAIModel          = "OPENAI_MODEL"
	EnvGeminiModel          = "GEMINI_MODEL"
	EnvCollectionName       = "PG_VECTOR_COLLECTION_NAME"
	EnvDatabaseURL          = "DATABASE_URL"
	EnvPDFPath              = "PDF_PATH"
	EnvS3Endpoint           = "S3_ENDPOINT"
	EnvS3Region             = "S3_REGION"
	EnvS3AccessKeyID        = "S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey    = "S3_SECRET_ACCESS_KEY"
	EnvLLMTimeoutSeconds    = "LLM_TIMEOUT_SECONDS"
	EnvLogLevel             = "LOG_LEVEL"
	EnvLogFile              = "LOG_FILE"
	EnvLogConsole           = "LOG_CONSOLE"
	EnvEnvFile              = "PDFRAG_ENV_FILE"
)

const (
	DefaultEmbeddingProvider    = ProviderOpenAI
	DefaultLLMProvider          = ProviderGemini
	DefaultOpenAIBaseURL        = "https://api.openai.com/v1"
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultGeminiEmbeddingModel = "models/embedding-001"
	DefaultOpenAIModel          = "gpt-5-nano"
	DefaultGeminiModel          = "gemini-2.5-flash-lite"
	DefaultS3Region             = "us-east-1"
	DefaultEnvFile              = ".env"
)

type Config struct {
	// EmbeddingProvider and LLMProvider hold the raw, lower-cased identifiers.
	// They are checked by ParseProvider when a component needs them.
	EmbeddingProvider string
	LLMProvider       string
	OpenAI            OpenAIConfig
	Gemini            GeminiConfig
	CollectionName    string
	DatabaseURL       string
	PDFPath           string
	S3                S3Config
	LLMTimeout        int
	LogConfig         LogConfig
}

type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	Model          string
}

type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
	Model          string
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type LogConfig struct {
	File      string
	Level     string
	FileCount int
	FileSize  int
	KeepDays  int
	Console   bool
}

// Load reads the given .env files (EnvFile() when none is given) into the
// process environment without overriding variables that are already set, then
// builds the configuration from the environment. Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{EnvFile()}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: load %s: %v", appErr.ErrConfiguration, file, err)
		}
	}
	return FromEnv()
}

// EnvFile is the dotenv file named by PDFRAG_ENV_FILE, ".env" by default.
func EnvFile() string {
	return envOr(EnvEnvFile, DefaultEnvFile)
}

// FromEnv builds the configuration from the process environment and applies
// the documented defaults. It does not check required variables; see
// ValidateIngest and ValidateChat.
func FromEnv() (*Config, error) {
	cfg := &Config{
		EmbeddingProvider: strings.ToLower(envOr(EnvEmbeddingProvider, string(DefaultEmbeddingProvider))),
		LLMProvider:       strings.ToLower(envOr(EnvLLMProvider, string(DefaultLLMProvider))),
		OpenAI: OpenAIConfig{
			APIKey:         env(EnvOpenAIAPIKey),
			BaseURL:        envOr(EnvOpenAIBaseURL, DefaultOpenAIBaseURL),
			EmbeddingModel: envOr(EnvOpenAIEmbeddingModel, DefaultOpenAIEmbeddingModel),
			Model:          envOr(EnvOpenAIModel, DefaultOpenAIModel),
		},
		Gemini: GeminiConfig{
			APIKey:         env(EnvGoogleAPIKey),
			EmbeddingModel: envOr(EnvGeminiEmbeddingModel, DefaultGeminiEmbeddingModel),
			Model:          envOr(EnvGeminiModel, DefaultGeminiModel),
		},
		CollectionName: env(EnvCollectionName),
		DatabaseURL:    env(EnvDatabaseURL),
		PDFPath:        env(EnvPDFPath),
		S3: S3Config{
			Endpoint:        env(EnvS3Endpoint),
			Region:          envOr(EnvS3Region, DefaultS3Region),
			AccessKeyID:     env(EnvS3AccessKeyID),
			SecretAccessKey: env(EnvS3SecretAccessKey),
		},
		LogConfig: LogConfig{
			File:      env(EnvLogFile),
			Level:     envOr(EnvLogLevel, "info"),
			FileCount: 5,
			FileSize:  100,
			KeepDays:  7,
			Console:   true,
		},
	}
	if raw := env(EnvLLMTimeoutSeconds); raw != "" {
		timeout, err := strconv.Atoi(raw)
		if err != nil || timeout < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative integer, got %q", appErr.ErrConfiguration, EnvLLMTimeoutSeconds, raw)
		}
		cfg.LLMTimeout = timeout
	}
	if raw := env(EnvLogConsole); raw != "" {
		console, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a boolean, got %q", appErr.ErrConfiguration, EnvLogConsole, raw)
		}
		cfg.LogConfig.Console = console
	}
	return cfg, nil
}

// ValidateIngest checks everything the ingest command needs before it touches
// the filesystem, a provider or the database.
func (c *Config) ValidateIngest() error {
	embedding, err := ParseProvider(EnvEmbeddingProvider, c.EmbeddingProvider)
	if err != nil {
		return err
	}
	return c.requireAll([]string{
		EnvCollectionName,
		EnvDatabaseURL,
		EnvPDFPath,
		c.apiKeyEnv(embedding),
	})
}

// ValidateChat checks everything a question needs: store connectivity and the
// credentials of both the embedding and the generation provider.
func (c *Config) ValidateChat() error {
	embedding, err := ParseProvider(EnvEmbeddingProvider, c.EmbeddingProvider)
	if err != nil {
		return err
	}
	llm, err := ParseProvider(EnvLLMProvider, c.LLMProvider)
	if err != nil {
		return err
	}
	return c.requireAll([]string{
		EnvCollectionName,
		EnvDatabaseURL,
		c.apiKeyEnv(embedding),
		c.apiKeyEnv(llm),
	})
}

func (c *Config) requireAll(names []string) error {
	for _, name := range names {
		if strings.TrimSpace(c.value(name)) == "" {
			return fmt.Errorf("%w: environment variable %s is not set", appErr.ErrConfiguration, name)
		}
	}
	return nil
}

func (c *Config) apiKeyEnv(p Provider) string {
	if p == ProviderGemini {
		return EnvGoogleAPIKey
	}
	return EnvOpenAIAPIKey
}

func (c *Config) value(name string) string {
	switch name {
	case EnvCollectionName:
		return c.CollectionName
	case EnvDatabaseURL:
		return c.DatabaseURL
	case EnvPDFPath:
		return c.PDFPath
	case EnvOpenAIAPIKey:
		return c.OpenAI.APIKey
	case EnvGoogleAPIKey:
		return c.Gemini.APIKey
	}
	return ""
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func envOr(name, fallback string) string {
	if v := env(name); v != "" {
		return v
	}
	return fallback
}
