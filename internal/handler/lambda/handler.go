// Package lambda adapts the summarize handler to AWS Lambda. It accepts API
// Gateway proxy events as well as direct invocations whose payload is the
// summary request itself.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"url-summarizer/internal/handler/http/summarize"
	"url-summarizer/internal/observability/logging"
)

// Handler is the Lambda entry point.
type Handler struct {
	handler *summarize.Handler
	logger  *slog.Logger
}

// New wraps h for Lambda. A nil logger uses slog.Default.
func New(h *summarize.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{handler: h, logger: logger}
}

// Invoke handles one event. The return value is always an API Gateway proxy
// response so direct invocations see the same envelope.
func (h *Handler) Invoke(ctx context.Context, payload json.RawMessage) (events.APIGatewayProxyResponse, error) {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With(slog.String("request_id", lc.AwsRequestID))
	}
	ctx = logging.WithLogger(ctx, logger)

	req, err := toRequest(payload)
	if err != nil {
		logger.Warn("failed to decode lambda payload", slog.String("error", err.Error()))
		// 本文なしとして扱い 400 を返す
		req = summarize.Request{Method: http.MethodPost}
	}

	resp := h.handler.Handle(ctx, req)
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}, nil
}

// toRequest recognizes an API Gateway proxy event by its httpMethod field.
// Anything else is treated as a direct invocation with the payload as body.
func toRequest(payload json.RawMessage) (summarize.Request, error) {
	var probe struct {
		HTTPMethod *string `json:"httpMethod"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return summarize.Request{}, err
	}
	if probe.HTTPMethod == nil {
		return summarize.Request{Method: http.MethodPost, Body: string(payload)}, nil
	}

	var ev events.APIGatewayProxyRequest
	if err := json.Unmarshal(payload, &ev); err != nil {
		return summarize.Request{}, err
	}
	body := ev.Body
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return summarize.Request{}, err
		}
		body = string(decoded)
	}
	return summarize.Request{Method: ev.HTTPMethod, Body: body}, nil
}
