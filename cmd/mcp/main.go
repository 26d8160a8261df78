// Package main serves the summarizer tools over MCP stdio.
package main

import (
	"context"
	"log/slog"
	"os"

	"url-summarizer/internal/app"
	"url-summarizer/internal/config"
	"url-summarizer/internal/interface/mcp"
	"url-summarizer/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// stdout は MCP プロトコル専用
	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize pipeline", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := a.Shutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	if err := mcp.NewServer(a.Service, cfg.Version).ServeStdio(); err != nil {
		logger.Error("mcp server stopped", slog.Any("error", err))
	}
}
