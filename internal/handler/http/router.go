package http

import (
	"log/slog"
	"net/http"

	"url-summarizer/internal/handler/http/requestid"
	"url-summarizer/internal/observability/tracing"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 1 << 20

// RouterConfig lists what NewRouter mounts.
type RouterConfig struct {
	Logger       *slog.Logger
	Summarize    http.Handler
	Health       http.Handler
	MaxBodyBytes int64
}

// NewRouter mounts /summarize, /health, /live and /metrics and wraps them in
// the middleware chain.
// Order: Request ID → Recovery → Logging → Body Limit → Tracing → Metrics
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	mux := http.NewServeMux()
	mux.Handle("/summarize", cfg.Summarize)
	if cfg.Health != nil {
		mux.Handle("/health", cfg.Health)
	}
	mux.Handle("/live", &LiveHandler{})
	mux.Handle("/metrics", MetricsHandler())

	// 内側から順に適用
	var h http.Handler = mux
	h = MetricsMiddleware(h)
	h = tracing.Middleware(h)
	h = LimitRequestBody(maxBody)(h)
	h = Logging(logger)(h)
	h = Recover(logger)(h)
	h = requestid.Middleware(h)
	return h
}
