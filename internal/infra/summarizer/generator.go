// Package summarizer turns scraped page content into a Japanese summary.
//
// Summarizer owns everything that does not depend on the model vendor: input
// truncation, the prompt, resilience, metrics and telemetry. The vendor call
// itself sits behind Generator, with Bedrock, Anthropic and OpenAI
// implementations selected by NewGenerator.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	// Temperature keeps summaries close to the source.
	Temperature = 0.1

	// MaxTokens bounds a single generation.
	MaxTokens = 4096
)

// ErrNonTextContent indicates the first element of a response was not text.
var ErrNonTextContent = errors.New("generation service returned non-text content")

// GenerateRequest is one single-turn generation call.
type GenerateRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Generation is the result of a generation call. Token counts are zero when
// the backend does not report usage.
type Generation struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Generator sends a prompt to a hosted model and returns its first text
// output, untrimmed.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Generation, error)

	// Name returns the provider name ("bedrock", "anthropic", "openai").
	Name() string
}

// Provider selects the generation backend.
type Provider string

const (
	ProviderBedrock   Provider = "bedrock"
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Config holds summarizer settings. Field tags are read by internal/config.
type Config struct {
	Provider Provider `env:"SUMMARIZER_PROVIDER" envDefault:"bedrock"`

	// Model overrides the provider's default model identifier.
	Model string `env:"SUMMARIZER_MODEL"`

	Region  string `env:"BEDROCK_REGION" envDefault:"us-west-2"`
	Profile string `env:"AWS_PROFILE"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`

	// OpenAIBaseURL points the OpenAI backend at a compatible gateway.
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	Timeout     time.Duration `env:"SUMMARIZER_TIMEOUT" envDefault:"120s"`
	MaxAttempts int           `env:"SUMMARIZER_MAX_ATTEMPTS" envDefault:"1"`
}

// DefaultConfig returns the same values as the env defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderBedrock,
		Region:      "us-west-2",
		Timeout:     120 * time.Second,
		MaxAttempts: 1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderBedrock:
		if c.Region == "" {
			return errors.New("BEDROCK_REGION is required for the bedrock provider")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown summarizer provider %q (want bedrock, anthropic or openai)", c.Provider)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("summarizer timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 5 {
		return fmt.Errorf("summarizer max attempts must be between 1 and 5, got %d", c.MaxAttempts)
	}
	return nil
}

// NewGenerator builds the Generator for cfg.Provider. The bedrock provider
// resolves AWS credentials through the default chain, honouring AWS_PROFILE.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid summarizer config: %w", err)
	}

	var gen Generator
	switch cfg.Provider {
	case ProviderBedrock:
		loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
		if cfg.Profile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		gen = NewBedrockGenerator(bedrockruntime.NewFromConfig(awsCfg), cfg.Model)
	case ProviderAnthropic:
		gen = NewClaudeGenerator(cfg.AnthropicAPIKey, cfg.Model)
	default:
		gen = NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL)
	}

	slog.Info("initialized summarizer backend",
		slog.String("provider", gen.Name()),
		slog.String("region", cfg.Region),
		slog.Duration("timeout", cfg.Timeout),
		slog.Int("max_attempts", cfg.MaxAttempts))
	return gen, nil
}
