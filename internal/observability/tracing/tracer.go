package tracing

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// tracerName is the instrumentation scope of spans created by this service.
const tracerName = "url-summarizer"

// otlpTracesPath is where Langfuse accepts OTLP/HTTP trace exports.
const otlpTracesPath = "/api/public/otel/v1/traces"

const defaultExportTimeout = 2 * time.Second

// Config selects where spans are exported. Field tags are read by internal/config.
type Config struct {
	Host      string `env:"LANGFUSE_HOST" envDefault:"https://cloud.langfuse.com"`
	PublicKey string `env:"LANGFUSE_PUBLIC_KEY"`
	SecretKey string `env:"LANGFUSE_SECRET_KEY"`

	// ExportTimeout bounds one export attempt and every Flush/Shutdown.
	// Exports are never retried; a slow collector only loses spans.
	ExportTimeout time.Duration `env:"LANGFUSE_EXPORT_TIMEOUT" envDefault:"2s"`

	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"url-summarizer"`
}

// Enabled reports whether both keys are present.
func (c Config) Enabled() bool {
	return c.PublicKey != "" && c.SecretKey != ""
}

// Endpoint returns the full OTLP traces URL for c.Host.
func (c Config) Endpoint() string {
	return strings.TrimRight(c.Host, "/") + otlpTracesPath
}

// Validate rejects half-configured credentials and a malformed host.
func (c Config) Validate() error {
	if (c.PublicKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("LANGFUSE_PUBLIC_KEY and LANGFUSE_SECRET_KEY must be set together")
	}
	if c.ExportTimeout < 0 {
		return fmt.Errorf("LANGFUSE_EXPORT_TIMEOUT must not be negative, got %s", c.ExportTimeout)
	}
	if !c.Enabled() {
		return nil
	}
	u, err := url.Parse(c.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("LANGFUSE_HOST must be an absolute http(s) URL, got %q", c.Host)
	}
	return nil
}

func (c Config) exportTimeout() time.Duration {
	if c.ExportTimeout <= 0 {
		return defaultExportTimeout
	}
	return c.ExportTimeout
}

// Provider owns the installed tracer provider.
type Provider struct {
	tp       trace.TracerProvider
	flush    func(context.Context) error
	shutdown func(context.Context) error
	timeout  time.Duration
}

// Tracer returns a tracer from the provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// ForceFlush exports buffered spans without stopping the exporter. It gives
// up after the export timeout even when ctx allows longer.
func (p *Provider) ForceFlush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.flush(ctx)
}

// Shutdown flushes pending spans and stops the exporter, bounded like ForceFlush.
func (p *Provider) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.shutdown(ctx)
}

// Init installs the global tracer provider and W3C trace-context propagation.
// Export failures are reported through slog and never reach request handling.
func Init(ctx context.Context, cfg Config) (*Provider, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		slog.Warn("telemetry export failed", slog.Any("error", err))
	}))

	if !cfg.Enabled() {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		slog.Info("tracing disabled (LANGFUSE_PUBLIC_KEY/LANGFUSE_SECRET_KEY not set)")
		nop := func(context.Context) error { return nil }
		return &Provider{tp: tp, flush: nop, shutdown: nop, timeout: cfg.exportTimeout()}, nil
	}

	auth := base64.StdEncoding.EncodeToString([]byte(cfg.PublicKey + ":" + cfg.SecretKey))
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint()),
		otlptracehttp.WithHeaders(map[string]string{"Authorization": "Basic " + auth}),
		otlptracehttp.WithTimeout(cfg.exportTimeout()),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{Enabled: false}),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(cfg.exportTimeout())),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)

	slog.Info("tracing enabled",
		slog.String("endpoint", cfg.Endpoint()),
		slog.String("service", cfg.ServiceName))
	return &Provider{tp: tp, flush: tp.ForceFlush, shutdown: tp.Shutdown, timeout: cfg.exportTimeout()}, nil
}

// GetTracer returns the service tracer from the global provider.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
