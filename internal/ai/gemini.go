package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/xxxsen/pdfrag/internal/config"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type geminiProvider struct {
	client *genai.Client
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) Generate(ctx context.Context, model string, prompt string, opts GenerateOptions) (string, error) {
	if p.client == nil {
		return "", ErrUnavailable
	}
	var cfg *genai.GenerateContentConfig
	if opts.Temperature != nil {
		cfg = &genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(*opts.Temperature)),
		}
	}
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

type geminiEmbedProvider struct {
	client *genai.Client
}

func (p *geminiEmbedProvider) Name() string {
	return "gemini"
}

func (p *geminiEmbedProvider) Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error) {
	if p.client == nil {
		return nil, ErrUnavailable
	}
	var cfg *genai.EmbedContentConfig
	if taskType != "" {
		cfg = &genai.EmbedContentConfig{
			TaskType: taskType,
		}
	}
	resp, err := p.client.Models.EmbedContent(ctx, model, genai.Text(text), cfg)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embedding values returned")
	}
	return resp.Embeddings[0].Values, nil
}

func newGeminiClient(args ProviderArgs) (*genai.Client, error) {
	apiKey := strings.TrimSpace(args.APIKey)
	if apiKey == "" {
		return nil, nil
	}
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	// no request is sent while building the client
	return genai.NewClient(context.Background(), cc)
}

func createGeminiFactory(args ProviderArgs) (IGenerateProvider, error) {
	client, err := newGeminiClient(args)
	if err != nil {
		return nil, fmt.Errorf("%w: init gemini client: %w", appErr.ErrProvider, err)
	}
	return &geminiProvider{client: client}, nil
}

func createGeminiEmbedFactory(args ProviderArgs) (IEmbedProvider, error) {
	client, err := newGeminiClient(args)
	if err != nil {
		return nil, fmt.Errorf("%w: init gemini client: %w", appErr.ErrProvider, err)
	}
	return &geminiEmbedProvider{client: client}, nil
}

func init() {
	Register(config.ProviderGemini, createGeminiFactory)
	RegisterEmbed(config.ProviderGemini, createGeminiEmbedFactory)
}
