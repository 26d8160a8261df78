package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"url-summarizer/internal/resilience/retry"
	"url-summarizer/internal/usecase/summary"
)

// DefaultBedrockModel is the Bedrock model used when SUMMARIZER_MODEL is unset.
const DefaultBedrockModel = "anthropic.claude-3-7-sonnet-20240620-v1:0"

// bedrockAnthropicVersion is the messages API version Bedrock expects for
// Anthropic models.
const bedrockAnthropicVersion = "bedrock-2023-05-31"

// InvokeModelAPI is the subset of the Bedrock Runtime client the generator uses.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type bedrockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Temperature      float64          `json:"temperature"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// BedrockGenerator invokes an Anthropic model hosted on AWS Bedrock.
type BedrockGenerator struct {
	client InvokeModelAPI
	model  string
}

// NewBedrockGenerator creates a BedrockGenerator. An empty model selects DefaultBedrockModel.
func NewBedrockGenerator(client InvokeModelAPI, model string) *BedrockGenerator {
	if model == "" {
		model = DefaultBedrockModel
	}
	return &BedrockGenerator{client: client, model: model}
}

// Name implements Generator.
func (b *BedrockGenerator) Name() string { return string(ProviderBedrock) }

// Generate implements Generator.
func (b *BedrockGenerator) Generate(ctx context.Context, req GenerateRequest) (Generation, error) {
	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		Messages:         []bedrockMessage{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return Generation{}, fmt.Errorf("encode bedrock request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			return Generation{}, fmt.Errorf("bedrock invoke model: %w: %w",
				&retry.HTTPError{StatusCode: respErr.HTTPStatusCode(), Message: "bedrock runtime"}, err)
		}
		return Generation{}, fmt.Errorf("bedrock invoke model: %w", err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return Generation{}, fmt.Errorf("decode bedrock response: %w", err)
	}
	if len(resp.Content) == 0 {
		return Generation{}, summary.ErrEmptyResponse
	}
	first := resp.Content[0]
	if first.Type != "" && first.Type != "text" {
		return Generation{}, fmt.Errorf("%w: %s", ErrNonTextContent, first.Type)
	}

	model := resp.Model
	if model == "" {
		model = b.model
	}
	return Generation{
		Text:         first.Text,
		Model:        model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
