// Package main runs the summarizer behind API Gateway on AWS Lambda.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"url-summarizer/internal/app"
	"url-summarizer/internal/config"
	lambdahandler "url-summarizer/internal/handler/lambda"
	"url-summarizer/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to initialize pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	h := lambdahandler.New(a.Handler, logger)

	// Lambda は実行環境を凍結するため、各呼び出しの後にスパンを送信する。
	// 送信は LANGFUSE_EXPORT_TIMEOUT で打ち切られ、応答を待たせない
	invoke := func(ctx context.Context, payload json.RawMessage) (events.APIGatewayProxyResponse, error) {
		resp, err := h.Invoke(ctx, payload)
		if flushErr := a.Flush(ctx); flushErr != nil {
			logger.Warn("failed to flush telemetry", slog.Any("error", flushErr))
		}
		return resp, err
	}

	lambda.StartWithOptions(invoke,
		lambda.WithEnableSIGTERM(func() {
			if err := a.Shutdown(context.Background()); err != nil {
				logger.Error("telemetry shutdown failed", slog.Any("error", err))
			}
		}))
}
