// Package summarize is the request handler shared by every transport. It
// validates the JSON body, runs the pipeline and shapes the response,
// including CORS headers, independently of net/http or Lambda.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/handler/http/respond"
	"url-summarizer/internal/observability/logging"
	"url-summarizer/internal/usecase/fetch"
	"url-summarizer/internal/usecase/summary"
)

// Client-facing messages.
const (
	MsgURLMissing     = "URLが指定されていません"
	MsgURLInvalid     = "有効なURLではありません"
	MsgInternalError  = "処理中にエラーが発生しました"
	MsgMethodNotAllow = "許可されていないメソッドです"
	MsgBodyTooLarge   = "リクエストが大きすぎます"
	MsgMaxLengthBad   = "maxLengthは整数で指定してください"
)

// Pipeline runs validation, fetch and summarization for one request.
// *summary.Service implements it.
type Pipeline interface {
	Summarize(ctx context.Context, req entity.SummaryRequest) (entity.SummaryResult, error)
}

// Request is a transport-neutral inbound request.
type Request struct {
	Method string
	Body   string
}

// Response is a transport-neutral outbound response. Body is JSON, or empty
// for a preflight.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// Config controls response shaping.
type Config struct {
	// AllowedOrigin is echoed in Access-Control-Allow-Origin.
	AllowedOrigin string

	// ExposeStack adds the wrapped error chain to 500 bodies. Off in production.
	ExposeStack bool
}

// Handler maps requests to responses. It never panics out of Handle.
type Handler struct {
	pipeline Pipeline
	cfg      Config
}

// NewHandler creates a Handler. An empty AllowedOrigin means "*".
func NewHandler(p Pipeline, cfg Config) *Handler {
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	return &Handler{pipeline: p, cfg: cfg}
}

// Headers returns the CORS and content-type headers set on every response.
func (h *Handler) Headers() map[string]string {
	return map[string]string{
		"Content-Type":                     "application/json",
		"Access-Control-Allow-Origin":      h.cfg.AllowedOrigin,
		"Access-Control-Allow-Methods":     "GET,POST,OPTIONS",
		"Access-Control-Allow-Headers":     "Content-Type,Authorization,X-Amz-Date,X-Api-Key,X-Amz-Security-Token",
		"Access-Control-Allow-Credentials": "true",
	}
}

// Handle processes one request.
//
//   - OPTIONS: 200 with an empty body
//   - body not JSON or url missing: 400 {"error":"URLが指定されていません"}
//   - url not a string or not an absolute http(s) URL: 400 {"error":"有効なURLではありません"}
//   - maxLength not an integer: 400 {"error":"maxLengthは整数で指定してください"}
//   - fetch or summarize failure, or a panic: 500 {"error","message"[,"stack"]}
//   - success: 200 {"url","summary","createdAt"}
func (h *Handler) Handle(ctx context.Context, req Request) (resp Response) {
	logger := logging.FromContext(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic in summarize handler",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			resp = h.internalError(ctx, fmt.Errorf("panic: %v", rec))
		}
	}()

	if strings.EqualFold(req.Method, http.MethodOptions) {
		return Response{StatusCode: http.StatusOK, Headers: h.Headers()}
	}

	in, err := decodeRequest(req.Body)
	if err != nil {
		logger.Warn("invalid request body", slog.String("error", err.Error()))
		recordOutcome(outcomeValidation)
		if errors.Is(err, errMaxLengthInvalid) {
			return h.json(http.StatusBadRequest, entity.ErrorResult{Error: MsgMaxLengthBad})
		}
		return h.validationError(err)
	}

	if err := entity.ValidateURL(in.URL); err != nil {
		recordOutcome(outcomeValidation)
		return h.validationError(err)
	}

	result, err := h.pipeline.Summarize(ctx, in)
	if err != nil {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			recordOutcome(outcomeValidation)
			return h.validationError(err)
		}
		return h.internalError(ctx, err)
	}

	recordOutcome(outcomeSuccess)
	logger.Info("summary created",
		slog.String("url", result.URL),
		slog.Int("summary_length", len([]rune(result.Summary))))
	return h.json(http.StatusOK, result)
}

func (h *Handler) validationError(err error) Response {
	msg := MsgURLInvalid
	if errors.Is(err, entity.ErrURLMissing) {
		msg = MsgURLMissing
	}
	return h.json(http.StatusBadRequest, entity.ErrorResult{Error: msg})
}

func (h *Handler) internalError(ctx context.Context, err error) Response {
	var (
		fe *fetch.Error
		se *summary.Error
	)
	switch {
	case errors.As(err, &fe):
		recordOutcome(outcomeFetchError)
	case errors.As(err, &se):
		recordOutcome(outcomeSummarizeError)
	default:
		recordOutcome(outcomeInternalError)
	}

	chain := respond.ErrorChain(err)
	logging.FromContext(ctx).Error("summarize request failed",
		slog.String("error", respond.SanitizeError(err)),
		slog.String("chain", chain))

	body := entity.ErrorResult{
		Error:   MsgInternalError,
		Message: respond.SanitizeError(err),
	}
	if h.cfg.ExposeStack {
		body.Stack = chain
	}
	return h.json(http.StatusInternalServerError, body)
}

func (h *Handler) json(code int, v any) Response {
	b, err := json.Marshal(v)
	if err != nil {
		// entity 型のエンコードは失敗しない
		b = []byte(`{"error":"` + MsgInternalError + `"}`)
		code = http.StatusInternalServerError
	}
	return Response{StatusCode: code, Headers: h.Headers(), Body: string(b)}
}
