package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/pdfrag/internal/config"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

// Gemini embedding task types. Other providers ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

var ErrUnavailable = fmt.Errorf("%w: ai provider unavailable", appErr.ErrProvider)

type GenerateOptions struct {
	Temperature *float64
}

type IGenerateProvider interface {
	Name() string
	Generate(ctx context.Context, model string, prompt string, opts GenerateOptions) (string, error)
}

type IEmbedProvider interface {
	Name() string
	Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error)
}

type IGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IEmbedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	ModelName() string
}

type generator struct {
	provider IGenerateProvider
	model    string
	opts     GenerateOptions
}

func NewGenerator(p IGenerateProvider, model string, opts GenerateOptions) IGenerator {
	return &generator{provider: p, model: model, opts: opts}
}

func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := g.provider.Generate(ctx, g.model, prompt, g.opts)
	if err != nil {
		return "", fmt.Errorf("%w: %s generate with %s: %w", appErr.ErrProvider, g.provider.Name(), g.model, err)
	}
	return res, nil
}

type embedder struct {
	provider IEmbedProvider
	model    string
}

func NewEmbedder(p IEmbedProvider, model string) IEmbedder {
	return &embedder{provider: p, model: model}
}

func (e *embedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	res, err := e.provider.Embed(ctx, e.model, text, taskType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s embed with %s: %w", appErr.ErrProvider, e.provider.Name(), e.model, err)
	}
	return res, nil
}

func (e *embedder) ModelName() string {
	return e.model
}

type ProviderArgs struct {
	APIKey  string
	BaseURL string
}

type GenerateFactory func(args ProviderArgs) (IGenerateProvider, error)

type EmbedFactory func(args ProviderArgs) (IEmbedProvider, error)

var (
	registry      = map[config.Provider]GenerateFactory{}
	embedRegistry = map[config.Provider]EmbedFactory{}
)

func Register(p config.Provider, factory GenerateFactory) {
	key := normalize(p)
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func RegisterEmbed(p config.Provider, factory EmbedFactory) {
	key := normalize(p)
	if key == "" || factory == nil {
		return
	}
	embedRegistry[key] = factory
}

func NewGenerateProvider(p config.Provider, args ProviderArgs) (IGenerateProvider, error) {
	factory := registry[normalize(p)]
	if factory == nil {
		return nil, fmt.Errorf("%w: unsupported generation provider: %s", appErr.ErrConfiguration, p)
	}
	return factory(args)
}

func NewEmbedProvider(p config.Provider, args ProviderArgs) (IEmbedProvider, error) {
	factory := embedRegistry[normalize(p)]
	if factory == nil {
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s", appErr.ErrConfiguration, p)
	}
	return factory(args)
}

func normalize(p config.Provider) config.Provider {
	return config.Provider(strings.ToLower(strings.TrimSpace(string(p))))
}
