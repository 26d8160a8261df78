package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantCode   int
		wantStatus string
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "degraded is still serving",
			checks: map[string]HealthCheck{
				"scraper": BreakerCheck(func() bool { return true }, map[string]any{"mode": "firecrawl"}),
			},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name: "unhealthy check",
			checks: map[string]HealthCheck{
				"scraper": func(context.Context) CheckStatus { return CheckStatus{Status: "unhealthy", Message: "misconfigured"} },
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HealthHandler{Version: "test", Checks: tt.checks}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", rr.Header().Get("Cache-Control"))

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "test", resp.Version)
			assert.Len(t, resp.Checks, len(tt.checks))
		})
	}
}

func TestBreakerCheck(t *testing.T) {
	open := false
	check := BreakerCheck(func() bool { return open }, nil)

	assert.Equal(t, "healthy", check(context.Background()).Status)
	open = true
	assert.Equal(t, "degraded", check(context.Background()).Status)
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rr := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alive", rr.Body.String())
}
