package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"url-summarizer/internal/resilience/retry"
	"url-summarizer/internal/usecase/summary"
)

// DefaultOpenAIModel is the OpenAI model used when SUMMARIZER_MODEL is unset.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIGenerator calls the OpenAI chat completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates an OpenAIGenerator. baseURL is optional and
// points the client at an OpenAI-compatible gateway.
func NewOpenAIGenerator(apiKey, model, baseURL string) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Name implements Generator.
func (o *OpenAIGenerator) Name() string { return string(ProviderOpenAI) }

// Generate implements Generator.
func (o *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (Generation, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		}},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return Generation{}, fmt.Errorf("openai api error: %w: %w",
				&retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: "openai chat completions"}, err)
		}
		return Generation{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Generation{}, summary.ErrEmptyResponse
	}

	return Generation{
		Text:         resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
