package ai

import (
	"github.com/xxxsen/pdfrag/internal/config"
)

// AnswerTemperature keeps answers close to deterministic.
const AnswerTemperature = 0.1

// NewEmbedderFromConfig builds the embedder selected by EMBEDDING_PROVIDER.
// Ingestion and retrieval both go through here so their vectors share a space.
func NewEmbedderFromConfig(cfg *config.Config) (IEmbedder, error) {
	p, err := config.ParseProvider(config.EnvEmbeddingProvider, cfg.EmbeddingProvider)
	if err != nil {
		return nil, err
	}
	provider, err := NewEmbedProvider(p, providerArgs(cfg, p))
	if err != nil {
		return nil, err
	}
	return NewEmbedder(provider, cfg.EmbeddingModel(p)), nil
}

// NewGeneratorFromConfig builds the answer generator selected by LLM_PROVIDER.
func NewGeneratorFromConfig(cfg *config.Config) (IGenerator, error) {
	p, err := config.ParseProvider(config.EnvLLMProvider, cfg.LLMProvider)
	if err != nil {
		return nil, err
	}
	provider, err := NewGenerateProvider(p, providerArgs(cfg, p))
	if err != nil {
		return nil, err
	}
	temperature := AnswerTemperature
	return NewGenerator(provider, cfg.GenerationModel(p), GenerateOptions{Temperature: &temperature}), nil
}

func providerArgs(cfg *config.Config, p config.Provider) ProviderArgs {
	switch p {
	case config.ProviderGemini:
		return ProviderArgs{APIKey: cfg.Gemini.APIKey}
	default:
		return ProviderArgs{APIKey: cfg.OpenAI.APIKey, BaseURL: cfg.OpenAI.BaseURL}
	}
}
