package fetcher

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"url-summarizer/internal/usecase/fetch"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Go Concurrency Patterns</title></head>
<body>
<nav><a href="/">Home</a></nav>
<article>
<h1>Go Concurrency Patterns</h1>
<p>Go provides goroutines and channels as first-class primitives for building concurrent programs. A goroutine is a lightweight thread managed by the Go runtime, and channels let goroutines communicate without explicit locks.</p>
<p>Pipelines are a common pattern: each stage receives values from upstream via inbound channels, performs some function on that data, and sends the results downstream via outbound channels. Cancellation is propagated with the context package.</p>
<img src="data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==">
<div class="advertisement">Buy now! Limited offer!</div>
<p>Fan-out and fan-in let several goroutines read from the same channel until it is closed, and then multiplex the results back into a single channel for the consumer.</p>
</article>
<script>window.tracking = true;</script>
</body>
</html>`

func localConfig() Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeLocal
	cfg.DenyPrivateIPs = false // httptest listens on loopback
	return cfg
}

func TestLocal_Fetch_ExtractsMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	content, err := NewLocal(localConfig()).Fetch(context.Background(), srv.URL+"/article")

	require.NoError(t, err)
	assert.Contains(t, content.Text, "goroutines and channels")
	assert.Contains(t, content.Text, "Fan-out and fan-in")
	assert.NotContains(t, content.Text, "data:image")
	assert.NotContains(t, content.Text, "Buy now")
	assert.NotContains(t, content.Text, "tracking")
	assert.NotContains(t, content.Text, "<p>")
}

func TestLocal_Fetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewLocal(localConfig()).Fetch(context.Background(), srv.URL)

	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, fetch.ErrUpstreamStatus)
}

func TestLocal_Fetch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + strings.Repeat("a", 4096) + "</body></html>"))
	}))
	defer srv.Close()

	cfg := localConfig()
	cfg.MaxBodySize = 1024
	_, err := NewLocal(cfg).Fetch(context.Background(), srv.URL)

	assert.ErrorIs(t, err, fetch.ErrBodyTooLarge)
}

func TestLocal_Fetch_TooManyRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	cfg := localConfig()
	cfg.MaxRedirects = 2
	_, err := NewLocal(cfg).Fetch(context.Background(), srv.URL)

	assert.ErrorIs(t, err, fetch.ErrTooManyRedirects)
}

func TestLocal_Fetch_DeniesPrivateTargets(t *testing.T) {
	cfg := localConfig()
	cfg.DenyPrivateIPs = true

	_, err := NewLocal(cfg).Fetch(context.Background(), "http://127.0.0.1:1/admin")

	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, fetch.ErrPrivateIP)
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"::1", true},
		{"fc00::1", true},
		{"0.0.0.0", true},
		{"8.8.8.8", false},
		{"2001:4860:4860::8888", false},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, isPrivateIP(net.ParseIP(tt.ip)))
		})
	}
}

func TestValidateTarget_Scheme(t *testing.T) {
	err := validateTarget("ftp://example.com/file", false)
	assert.ErrorIs(t, err, fetch.ErrInvalidURL)

	err = validateTarget("http:///nohost", false)
	assert.ErrorIs(t, err, fetch.ErrInvalidURL)

	assert.NoError(t, validateTarget("https://example.com", false))
}
