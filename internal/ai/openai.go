package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/xxxsen/pdfrag/internal/config"
)

type openAIProvider struct {
	client *openai.Client
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Generate(ctx context.Context, model string, prompt string, opts GenerateOptions) (string, error) {
	if p.client == nil {
		return "", ErrUnavailable
	}
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if opts.Temperature != nil && supportsTemperature(model) {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// supportsTemperature reports whether model accepts a sampling temperature.
// gpt-5 reasoning models reject anything but the default, the gpt-5 chat
// variants do not.
func supportsTemperature(model string) bool {
	name := strings.ToLower(strings.TrimSpace(model))
	name = strings.TrimPrefix(name, "openai/")
	if !strings.HasPrefix(name, "gpt-5") {
		return true
	}
	return strings.HasPrefix(name, "gpt-5-chat")
}

type openAIEmbedProvider struct {
	client *openai.Client
}

func (p *openAIEmbedProvider) Name() string {
	return "openai"
}

func (p *openAIEmbedProvider) Embed(ctx context.Context, model string, text string, _ string) ([]float32, error) {
	if p.client == nil {
		return nil, ErrUnavailable
	}
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(model),
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai response has no embeddings")
	}
	values := resp.Data[0].Embedding
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out, nil
}

func newOpenAIClient(args ProviderArgs) *openai.Client {
	apiKey := strings.TrimSpace(args.APIKey)
	if apiKey == "" {
		return nil
	}
	baseURL := strings.TrimSpace(args.BaseURL)
	if baseURL == "" {
		baseURL = config.DefaultOpenAIBaseURL
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"),
		option.WithMaxRetries(0),
	)
	return &client
}

func createOpenAIFactory(args ProviderArgs) (IGenerateProvider, error) {
	return &openAIProvider{client: newOpenAIClient(args)}, nil
}

func createOpenAIEmbedFactory(args ProviderArgs) (IEmbedProvider, error) {
	return &openAIEmbedProvider{client: newOpenAIClient(args)}, nil
}

func init() {
	Register(config.ProviderOpenAI, createOpenAIFactory)
	RegisterEmbed(config.ProviderOpenAI, createOpenAIEmbedFactory)
}
