// Package app assembles the pipeline from configuration. Every entrypoint
// (HTTP server, Lambda, MCP, CLI) builds one App and drives it through its
// own transport.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"url-summarizer/internal/config"
	hhttp "url-summarizer/internal/handler/http"
	"url-summarizer/internal/handler/http/summarize"
	"url-summarizer/internal/infra/fetcher"
	"url-summarizer/internal/infra/summarizer"
	"url-summarizer/internal/observability/tracing"
	"url-summarizer/internal/usecase/fetch"
	"url-summarizer/internal/usecase/summary"
)

// App holds the wired components.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Service *summary.Service
	Handler *summarize.Handler
	Health  *hhttp.HealthHandler

	tracing *tracing.Provider
}

// Option overrides a component, mostly for tests.
type Option func(*options)

type options struct {
	fetcher   fetch.ContentFetcher
	generator summarizer.Generator
}

// WithFetcher replaces the fetcher chosen by SCRAPER_MODE.
func WithFetcher(f fetch.ContentFetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithGenerator replaces the backend chosen by SUMMARIZER_PROVIDER.
func WithGenerator(g summarizer.Generator) Option {
	return func(o *options) { o.generator = g }
}

// circuitReporter is implemented by components guarded by a circuit breaker.
type circuitReporter interface {
	CircuitOpen() bool
}

// New wires the pipeline. Call Shutdown to flush telemetry.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	f := o.fetcher
	if f == nil {
		f, err = fetcher.New(cfg.Fetcher)
		if err != nil {
			return nil, err
		}
	}

	gen := o.generator
	if gen == nil {
		gen, err = summarizer.NewGenerator(ctx, cfg.Summarizer)
		if err != nil {
			return nil, err
		}
	}

	var sumOpts []summarizer.Option
	if cfg.Tracing.Enabled() {
		sumOpts = append(sumOpts, summarizer.WithTelemetry(
			summarizer.NewOTelTelemetry(tp.Tracer("url-summarizer/summarizer"))))
	}
	s := summarizer.New(gen, cfg.Summarizer, sumOpts...)

	svc := summary.NewService(f, s)
	handler := summarize.NewHandler(svc, summarize.Config{
		AllowedOrigin: cfg.AllowedOrigin,
		ExposeStack:   !cfg.IsProduction(),
	})

	checks := map[string]hhttp.HealthCheck{
		"summarizer": hhttp.BreakerCheck(s.CircuitOpen, map[string]any{"provider": gen.Name()}),
	}
	if cr, ok := f.(circuitReporter); ok {
		checks["fetcher"] = hhttp.BreakerCheck(cr.CircuitOpen, map[string]any{"mode": string(cfg.Fetcher.Mode)})
	}

	cfg.LogWarnings(logger)
	logger.Info("pipeline initialized",
		slog.String("environment", cfg.Environment),
		slog.String("scraper_mode", string(cfg.Fetcher.Mode)),
		slog.String("summarizer_provider", gen.Name()),
		slog.Bool("telemetry", cfg.Tracing.Enabled()))

	return &App{
		Config:  cfg,
		Logger:  logger,
		Service: svc,
		Handler: handler,
		Health:  &hhttp.HealthHandler{Version: cfg.Version, Checks: checks},
		tracing: tp,
	}, nil
}

// HTTPHandler returns the routed net/http handler with the middleware chain.
func (a *App) HTTPHandler() http.Handler {
	return hhttp.NewRouter(hhttp.RouterConfig{
		Logger:       a.Logger,
		Summarize:    a.Handler,
		Health:       a.Health,
		MaxBodyBytes: a.Config.MaxBodyBytes,
	})
}

// Flush exports buffered spans. Lambda calls it after every invocation
// because the runtime may be frozen before the batcher fires.
func (a *App) Flush(ctx context.Context) error {
	return a.tracing.ForceFlush(ctx)
}

// Shutdown flushes pending spans.
func (a *App) Shutdown(ctx context.Context) error {
	return a.tracing.Shutdown(ctx)
}
