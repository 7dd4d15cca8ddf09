package config

import (
	"fmt"
	"strings"

	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

// Provider is the closed set of model backends.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// ParseProvider resolves a provider identifier case-insensitively. variable
// names the environment variable the value came from and is only used in the
// error message.
func ParseProvider(variable, value string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(value))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	}
	return "", fmt.Errorf("%w: %s must be 'openai' or 'gemini', got %q", appErr.ErrConfiguration, variable, value)
}

// EmbeddingModel returns the embedding model configured for p.
func (c *Config) EmbeddingModel(p Provider) string {
	if p == ProviderGemini {
		return c.Gemini.EmbeddingModel
	}
	return c.OpenAI.EmbeddingModel
}

// GenerationModel returns the chat model configured for p.
func (c *Config) GenerationModel(p Provider) string {
	if p == ProviderGemini {
		return c.Gemini.Model
	}
	return c.OpenAI.Model
}
