package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/raveheart1/pagecraft/internal/schema"
)

// Provider identifiers accepted in configuration.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient implements Client using the official openai-go SDK
// (chat completions).
type OpenAIClient struct {
	model       string
	temperature float64
	maxTokens   int
	opts        []option.RequestOption
}

// NewOpenAIClient builds the OpenAI backend from settings.
func NewOpenAIClient(cfg Settings) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set api_key, PAGECRAFT_API_KEY, or OPENAI_API_KEY")
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		opts:        opts,
	}, nil
}

// Name implements Client.
func (o *OpenAIClient) Name() string { return ProviderOpenAI }

// Generate implements Client: one chat completion call, no internal retry.
func (o *OpenAIClient) Generate(ctx context.Context, p Prompt, s schema.Schema) (string, error) {
	return completeChat(ctx, o.Name(), o.model, o.temperature, o.maxTokens, o.opts, p, s)
}

// completeChat is the shared openai-go call path for both backends.
func completeChat(ctx context.Context, provider, model string, temperature float64, maxTokens int,
	opts []option.RequestOption, p Prompt, s schema.Schema) (string, error) {

	client := openai.NewClient(opts...)

	// The schema constrains by instruction; enforcement happens in the
	// validator after the response arrives.
	system := p.System + "\n\n" + s.Instruction()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(p.User),
		},
	}
	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(provider, ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: provider, Kind: Unavailable, Err: errors.New("empty choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// Compile-time interface compliance check.
var _ Client = (*OpenAIClient)(nil)
