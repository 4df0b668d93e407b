package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go/option"

	"github.com/raveheart1/pagecraft/internal/schema"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.1-8b-instant"
)

// GroqClient implements Client against Groq's OpenAI-compatible endpoint.
// It reuses the openai-go SDK with a different base URL and model default.
type GroqClient struct {
	model       string
	temperature float64
	maxTokens   int
	opts        []option.RequestOption
}

// NewGroqClient builds the Groq backend from settings.
func NewGroqClient(cfg Settings) (*GroqClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("groq api key missing; set api_key, PAGECRAFT_API_KEY, or GROQ_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGroqModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	return &GroqClient{
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		opts: []option.RequestOption{
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(baseURL),
		},
	}, nil
}

// Name implements Client.
func (g *GroqClient) Name() string { return ProviderGroq }

// Generate implements Client.
func (g *GroqClient) Generate(ctx context.Context, p Prompt, s schema.Schema) (string, error) {
	return completeChat(ctx, g.Name(), g.model, g.temperature, g.maxTokens, g.opts, p, s)
}

// Compile-time interface compliance check.
var _ Client = (*GroqClient)(nil)
