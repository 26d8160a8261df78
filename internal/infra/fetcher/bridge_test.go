package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"url-summarizer/internal/usecase/fetch"
)

func TestBridge_Fetch(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = w.Write([]byte(`{"result":{"markdown":"bridged content"}}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Mode = ModeBridge
	content, err := NewBridge(cfg).Fetch(context.Background(), "https://example.com/post")

	require.NoError(t, err)
	assert.Equal(t, "bridged content", content.Text)
	assert.Equal(t, "https://example.com/post", gotBody["url"])
	assert.Equal(t, true, gotBody["onlyMainContent"])
	assert.NotContains(t, gotBody, "blockAds")
}

func TestBridge_Fetch_EmptyMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"markdown":""}}`))
	}))
	defer srv.Close()

	content, err := NewBridge(testConfig(srv.URL)).Fetch(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, fetch.EmptyContentPlaceholder, content.Text)
}

func TestBridge_Fetch_MissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"browser crashed"}`))
	}))
	defer srv.Close()

	_, err := NewBridge(testConfig(srv.URL)).Fetch(context.Background(), "https://example.com")

	assert.ErrorIs(t, err, fetch.ErrNoContent)
	assert.NotContains(t, err.Error(), "browser crashed")
}
