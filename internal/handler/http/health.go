// Package http holds the net/http surface of the service: routing, the
// middleware chain, health probes and Prometheus metrics. The summarize
// endpoint itself lives in the summarize subpackage so the Lambda adapter
// can share it.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"url-summarizer/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"` // "healthy", "degraded" or "unhealthy"
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthCheck reports on one component. It must not call upstream services:
// probes run often and scraping or generation calls cost money.
type HealthCheck func(ctx context.Context) CheckStatus

// HealthHandler reports the local state of the pipeline's components.
type HealthHandler struct {
	Version string
	Checks  map[string]HealthCheck
}

// ServeHTTP returns 200 unless a check is unhealthy, then 503. Degraded
// checks (an open circuit breaker, for example) still answer 200.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus, len(h.Checks))
	allHealthy := true
	for name, check := range h.Checks {
		st := check(ctx)
		checks[name] = st
		if st.Status == "unhealthy" {
			allHealthy = false
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, response)
}

// BreakerCheck reports a circuit breaker as degraded while it is open.
func BreakerCheck(isOpen func() bool, details map[string]any) HealthCheck {
	return func(context.Context) CheckStatus {
		if isOpen() {
			return CheckStatus{Status: "degraded", Message: "circuit breaker open", Details: details}
		}
		return CheckStatus{Status: "healthy", Details: details}
	}
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Error("alive: failed to write response", slog.Any("error", err))
	}
}
