package summarizer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GenerationRecord describes one generation call for telemetry. It carries
// sizes and usage only, never the page content or the summary text.
type GenerationRecord struct {
	Provider     string
	Model        string
	Start        time.Time
	End          time.Time
	InputChars   int
	PromptChars  int
	OutputChars  int
	InputTokens  int
	OutputTokens int
	MaxLength    int
	Truncated    bool
	Err          error
}

// Telemetry receives a record of each generation call. Implementations may
// fail; Summarizer logs the failure as a TelemetryError and carries on.
type Telemetry interface {
	RecordGeneration(ctx context.Context, rec GenerationRecord) error
}

// TelemetryError reports a failed or panicking telemetry call. It is logged
// and never returned to callers of Summarize.
type TelemetryError struct {
	Op  string
	Err error
}

func (e *TelemetryError) Error() string {
	return fmt.Sprintf("telemetry %s failed: %v", e.Op, e.Err)
}

func (e *TelemetryError) Unwrap() error {
	return e.Err
}

// NoopTelemetry discards every record.
type NoopTelemetry struct{}

// RecordGeneration implements Telemetry.
func (NoopTelemetry) RecordGeneration(context.Context, GenerationRecord) error { return nil }

// OTelTelemetry writes one span per generation. Spans use the gen_ai
// attribute names so Langfuse's OTLP endpoint shows them as generations.
type OTelTelemetry struct {
	tracer trace.Tracer
}

// NewOTelTelemetry creates an OTelTelemetry on tracer.
func NewOTelTelemetry(tracer trace.Tracer) *OTelTelemetry {
	return &OTelTelemetry{tracer: tracer}
}

// RecordGeneration implements Telemetry.
func (t *OTelTelemetry) RecordGeneration(ctx context.Context, rec GenerationRecord) error {
	_, span := t.tracer.Start(ctx, "summarize.generation",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(rec.Start),
		trace.WithAttributes(
			attribute.String("langfuse.observation.type", "generation"),
			attribute.String("gen_ai.system", rec.Provider),
			attribute.String("gen_ai.request.model", rec.Model),
			attribute.Float64("gen_ai.request.temperature", Temperature),
			attribute.Int("gen_ai.request.max_tokens", MaxTokens),
			attribute.Int("gen_ai.usage.input_tokens", rec.InputTokens),
			attribute.Int("gen_ai.usage.output_tokens", rec.OutputTokens),
			attribute.Int("summarizer.input_chars", rec.InputChars),
			attribute.Int("summarizer.prompt_chars", rec.PromptChars),
			attribute.Int("summarizer.output_chars", rec.OutputChars),
			attribute.Int("summarizer.max_length", rec.MaxLength),
			attribute.Bool("summarizer.input_truncated", rec.Truncated),
			attribute.Int64("summarizer.latency_ms", rec.End.Sub(rec.Start).Milliseconds()),
		))
	if rec.Err != nil {
		span.RecordError(rec.Err)
		span.SetStatus(codes.Error, rec.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(rec.End))
	return nil
}
