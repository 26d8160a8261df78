// Package main provides a CLI command that summarizes one URL.
// Usage: url-summarize [--max-length N] [--output text|json|yaml] <url>
package main

import (
	"context"
	"log/slog"
	"os"

	"url-summarizer/internal/app"
	"url-summarizer/internal/config"
	"url-summarizer/internal/observability/logging"
)

func main() {
	cmd := newRootCmd(buildPipeline)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPipeline loads configuration and wires the real pipeline. Logs go to
// stderr so stdout carries only the summary.
func buildPipeline(ctx context.Context, envFile string) (pipeline, func(), error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewText(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := a.Shutdown(context.Background()); err != nil {
			logger.Error("failed to flush telemetry", slog.Any("error", err))
		}
	}
	return a.Service, cleanup, nil
}
