package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/observability/logging"
	"url-summarizer/internal/resilience/circuitbreaker"
	"url-summarizer/internal/resilience/retry"
	"url-summarizer/internal/usecase/summary"
	"url-summarizer/internal/utils/text"
)

// Summarizer implements summary.Summarizer on top of a Generator.
// It is safe for concurrent use.
type Summarizer struct {
	generator Generator
	telemetry Telemetry
	metrics   SummaryMetricsRecorder
	breaker   *circuitbreaker.CircuitBreaker
	retry     retry.Config
	timeout   time.Duration
	now       func() time.Time
}

// Option customizes a Summarizer.
type Option func(*Summarizer)

// WithTelemetry sets the telemetry sink. The default is NoopTelemetry.
func WithTelemetry(t Telemetry) Option {
	return func(s *Summarizer) {
		if t != nil {
			s.telemetry = t
		}
	}
}

// WithMetrics replaces the Prometheus recorder.
func WithMetrics(m SummaryMetricsRecorder) Option {
	return func(s *Summarizer) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New creates a Summarizer. Only cfg.Timeout and cfg.MaxAttempts are read;
// the backend is already chosen by gen.
func New(gen Generator, cfg Config, opts ...Option) *Summarizer {
	s := &Summarizer{
		generator: gen,
		telemetry: NoopTelemetry{},
		metrics:   NewPrometheusSummaryMetrics(),
		breaker:   circuitbreaker.New(circuitbreaker.GenerationConfig(gen.Name() + "-api")),
		retry:     retry.UpstreamConfig(cfg.MaxAttempts),
		timeout:   cfg.Timeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CircuitOpen reports whether the generation breaker is rejecting calls.
func (s *Summarizer) CircuitOpen() bool { return s.breaker.IsOpen() }

// Summarize implements summary.Summarizer. Content over MaxInputChars is
// truncated first; maxLength <= 0 means entity.DefaultMaxLength. maxLength is
// an instruction to the model, not a hard cap on the output.
func (s *Summarizer) Summarize(ctx context.Context, content string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = entity.DefaultMaxLength
	}
	logger := logging.FromContext(ctx)

	input, truncated := TruncateInput(content)
	if truncated {
		logger.Warn("content truncated before summarization",
			"original_length", text.CountRunes(content),
			"max_input_chars", MaxInputChars)
	}
	prompt := BuildPrompt(input, maxLength)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.now()
	var gen Generation
	err := retry.WithBackoff(callCtx, s.retry, func() error {
		out, err := circuitbreaker.Execute(s.breaker, func() (Generation, error) {
			return s.generator.Generate(callCtx, GenerateRequest{
				Prompt:      prompt,
				Temperature: Temperature,
				MaxTokens:   MaxTokens,
			})
		})
		if err != nil {
			return err
		}
		gen = out
		return nil
	})
	end := s.now()

	rec := GenerationRecord{
		Provider:    s.generator.Name(),
		Model:       gen.Model,
		Start:       start,
		End:         end,
		InputChars:  text.CountRunes(input),
		PromptChars: text.CountRunes(prompt),
		MaxLength:   maxLength,
		Truncated:   truncated,
		Err:         err,
	}

	if err != nil {
		s.metrics.RecordError(s.generator.Name())
		s.recordTelemetry(ctx, rec)
		logger.Error("summarization failed",
			"provider", s.generator.Name(),
			"duration", end.Sub(start),
			"error", err)
		if errors.Is(err, circuitbreaker.ErrOpen) {
			err = fmt.Errorf("%s api unavailable: %w", s.generator.Name(), err)
		}
		return "", summary.NewError(err)
	}

	result := strings.TrimSpace(gen.Text)
	length := text.CountRunes(result)

	rec.OutputChars = length
	rec.InputTokens = gen.InputTokens
	rec.OutputTokens = gen.OutputTokens
	s.recordTelemetry(ctx, rec)

	s.metrics.RecordDuration(s.generator.Name(), end.Sub(start))
	s.metrics.RecordLength(length)
	if length > maxLength {
		s.metrics.RecordLimitExceeded()
		logger.Warn("summary exceeds requested length",
			"summary_length", length,
			"max_length", maxLength)
	}

	logger.Info("summarization completed",
		"provider", s.generator.Name(),
		"model", gen.Model,
		"input_length", rec.InputChars,
		"summary_length", length,
		"input_tokens", gen.InputTokens,
		"output_tokens", gen.OutputTokens,
		"duration", end.Sub(start))
	return result, nil
}

// recordTelemetry hands rec to the telemetry sink. Errors and panics are
// logged as *TelemetryError and dropped.
func (s *Summarizer) recordTelemetry(ctx context.Context, rec GenerationRecord) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		err = s.telemetry.RecordGeneration(ctx, rec)
	}()
	if err != nil {
		logging.FromContext(ctx).Warn("telemetry dropped",
			"error", &TelemetryError{Op: "record generation", Err: err})
	}
}

var _ summary.Summarizer = (*Summarizer)(nil)
