package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"url-summarizer/internal/resilience/retry"
	"url-summarizer/internal/usecase/summary"
)

// DefaultClaudeModel is the Anthropic model used when SUMMARIZER_MODEL is unset.
var DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// ClaudeGenerator calls the Anthropic Messages API directly.
type ClaudeGenerator struct {
	client anthropic.Client
	model  string
}

// NewClaudeGenerator creates a ClaudeGenerator. Extra request options (a
// test base URL, for instance) are appended after the API key. SDK-level
// retries are disabled; Summarizer owns the retry policy.
func NewClaudeGenerator(apiKey, model string, opts ...option.RequestOption) *ClaudeGenerator {
	if model == "" {
		model = DefaultClaudeModel
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &ClaudeGenerator{
		client: anthropic.NewClient(reqOpts...),
		model:  model,
	}
}

// Name implements Generator.
func (c *ClaudeGenerator) Name() string { return string(ProviderAnthropic) }

// Generate implements Generator.
func (c *ClaudeGenerator) Generate(ctx context.Context, req GenerateRequest) (Generation, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return Generation{}, fmt.Errorf("claude api error: %w: %w",
				&retry.HTTPError{StatusCode: apiErr.StatusCode, Message: "anthropic messages"}, err)
		}
		return Generation{}, fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return Generation{}, summary.ErrEmptyResponse
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return Generation{}, fmt.Errorf("%w: %s", ErrNonTextContent, message.Content[0].Type)
	}

	return Generation{
		Text:         textBlock.Text,
		Model:        string(message.Model),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
