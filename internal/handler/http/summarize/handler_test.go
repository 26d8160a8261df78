package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/usecase/fetch"
	"url-summarizer/internal/usecase/summary"
)

type stubPipeline struct {
	calls  int
	gotReq entity.SummaryRequest
	result entity.SummaryResult
	err    error
	panic  any
}

func (s *stubPipeline) Summarize(_ context.Context, req entity.SummaryRequest) (entity.SummaryResult, error) {
	s.calls++
	s.gotReq = req
	if s.panic != nil {
		panic(s.panic)
	}
	return s.result, s.err
}

var fixedTime = time.Date(2025, 3, 1, 0, 30, 15, 123000000, time.UTC)

func okPipeline() *stubPipeline {
	return &stubPipeline{result: entity.SummaryResult{
		URL:       "https://example.com/a",
		Summary:   "要約です。",
		CreatedAt: fixedTime,
	}}
}

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func assertCORS(t *testing.T, headers map[string]string, origin string) {
	t.Helper()
	assert.Equal(t, "application/json", headers["Content-Type"])
	assert.Equal(t, origin, headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "GET,POST,OPTIONS", headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type,Authorization,X-Amz-Date,X-Api-Key,X-Amz-Security-Token", headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "true", headers["Access-Control-Allow-Credentials"])
}

func TestHandle_Success(t *testing.T) {
	p := okPipeline()
	h := NewHandler(p, Config{AllowedOrigin: "https://app.example.com"})

	resp := h.Handle(context.Background(), Request{
		Method: http.MethodPost,
		Body:   `{"url":"https://example.com/a","maxLength":300}`,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assertCORS(t, resp.Headers, "https://app.example.com")
	assert.JSONEq(t, `{"url":"https://example.com/a","summary":"要約です。","createdAt":"2025-03-01T00:30:15.123Z"}`, resp.Body)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, entity.SummaryRequest{URL: "https://example.com/a", MaxLength: 300}, p.gotReq)
}

func TestHandle_DefaultOrigin(t *testing.T) {
	h := NewHandler(okPipeline(), Config{})
	resp := h.Handle(context.Background(), Request{Method: http.MethodPost, Body: `{"url":"https://example.com/a"}`})
	assertCORS(t, resp.Headers, "*")
}

func TestHandle_Preflight(t *testing.T) {
	p := okPipeline()
	h := NewHandler(p, Config{})

	resp := h.Handle(context.Background(), Request{Method: http.MethodOptions})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assertCORS(t, resp.Headers, "*")
	assert.Zero(t, p.calls)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "empty body", body: "", wantMsg: MsgURLMissing},
		{name: "not json", body: "url=https://example.com", wantMsg: MsgURLMissing},
		{name: "missing url", body: `{"maxLength":100}`, wantMsg: MsgURLMissing},
		{name: "empty url", body: `{"url":""}`, wantMsg: MsgURLMissing},
		{name: "null url", body: `{"url":null}`, wantMsg: MsgURLMissing},
		{name: "json array", body: `[]`, wantMsg: MsgURLMissing},
		{name: "whitespace url", body: `{"url":"   "}`, wantMsg: MsgURLInvalid},
		{name: "numeric url", body: `{"url":123}`, wantMsg: MsgURLInvalid},
		{name: "object url", body: `{"url":{"href":"https://example.com"}}`, wantMsg: MsgURLInvalid},
		{name: "maxLength word", body: `{"url":"https://example.com","maxLength":"long"}`, wantMsg: MsgMaxLengthBad},
		{name: "maxLength fraction", body: `{"url":"https://example.com","maxLength":300.5}`, wantMsg: MsgMaxLengthBad},
		{name: "relative url", body: `{"url":"/path/only"}`, wantMsg: MsgURLInvalid},
		{name: "ftp scheme", body: `{"url":"ftp://example.com/file"}`, wantMsg: MsgURLInvalid},
		{name: "no host", body: `{"url":"https://"}`, wantMsg: MsgURLInvalid},
		{name: "garbage", body: `{"url":"not a url"}`, wantMsg: MsgURLInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := okPipeline()
			h := NewHandler(p, Config{})

			resp := h.Handle(context.Background(), Request{Method: http.MethodPost, Body: tt.body})

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assertCORS(t, resp.Headers, "*")
			assert.JSONEq(t, `{"error":"`+tt.wantMsg+`"}`, resp.Body)
			assert.Zero(t, p.calls, "pipeline must not run on invalid input")
		})
	}
}

func TestHandle_MaxLengthAsNumericString(t *testing.T) {
	p := okPipeline()
	h := NewHandler(p, Config{})

	resp := h.Handle(context.Background(), Request{
		Method: http.MethodPost,
		Body:   `{"url":"https://example.com/a","maxLength":" 300 "}`,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.SummaryRequest{URL: "https://example.com/a", MaxLength: 300}, p.gotReq)
}

func TestHandle_PipelineValidationError(t *testing.T) {
	p := &stubPipeline{err: &entity.ValidationError{Field: "url", Message: "bad", Kind: entity.ErrURLInvalid}}
	h := NewHandler(p, Config{})

	resp := h.Handle(context.Background(), Request{Method: http.MethodPost, Body: `{"url":"https://example.com"}`})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"`+MsgURLInvalid+`"}`, resp.Body)
}

func TestHandle_FetchError(t *testing.T) {
	fetchErr := fetch.NewError("https://example.com", fetch.ErrNoContent)
	p := &stubPipeline{err: fetchErr}

	t.Run("development exposes stack", func(t *testing.T) {
		h := NewHandler(p, Config{ExposeStack: true})
		resp := h.Handle(context.Background(), Request{Method: http.MethodPost, Body: `{"url":"https://example.com"}`})

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assertCORS(t, resp.Headers, "*")
		body := decodeBody(t, resp.Body)
		assert.Equal(t, MsgInternalError, body["error"])
		assert.Equal(t, fetchErr.Error(), body["message"])
		assert.Contains(t, body["message"], "スクレイピング結果が取得できませんでした")
		require.Contains(t, body, "stack")
		assert.Contains(t, body["stack"], "*fetch.Error")
	})

	t.Run("production hides stack", func(t *testing.T) {
		h := NewHandler(p, Config{ExposeStack: false})
		resp := h.Handle(context.Background(), Request{Method: http.MethodPost, Body: `{"url":"https://example.com"}`})

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeBody(t, resp.Body)
		assert.Equal(t, MsgInternalError, body["error"])
		assert.Equal(t, fetchErr.Error(), body["message"])
		assert.NotContains(t, body, "stack")
	})
}

func TestHandle_SummarizeError(t *testing.T) {
	p := &stubPipeline{err: summary.NewError(errors.New("model overloaded"))}
	h := NewHandler(p, Config{})

	resp := h.Handle(context.Background(), Request{Method: http.MethodPost, Body: `{"url":"https://example.com"}`})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, MsgInternalError, body["error"])
	assert.Contains(t, body["message"], "model overloaded")
}

func TestHandle_MessageIsSanitized(t *testing.T) {
	p := &stubPipeline{err: fetch.NewError("https://example.com", errors.New("auth failed with key fc-0123456789abcdef"))}
	h := NewHandler(p, Config{ExposeStack: true})

	resp := h.Handle(context.Background(), Request{Method: http.MethodPost, Body: `{"url":"https://example.com"}`})

	assert.NotContains(t, resp.Body, "0123456789abcdef")
}

func TestHandle_PanicRecovered(t *testing.T) {
	p := &stubPipeline{panic: "boom"}
	h := NewHandler(p, Config{})

	var resp Response
	require.NotPanics(t, func() {
		resp = h.Handle(context.Background(), Request{Method: http.MethodPost, Body: `{"url":"https://example.com"}`})
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assertCORS(t, resp.Headers, "*")
	body := decodeBody(t, resp.Body)
	assert.Equal(t, MsgInternalError, body["error"])
	assert.Contains(t, body["message"], "boom")
}

func TestServeHTTP(t *testing.T) {
	t.Run("post", func(t *testing.T) {
		h := NewHandler(okPipeline(), Config{})
		req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"url":"https://example.com/a"}`))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Body.String(), `"summary":"要約です。"`)
	})

	t.Run("options", func(t *testing.T) {
		h := NewHandler(okPipeline(), Config{})
		req := httptest.NewRequest(http.MethodOptions, "/summarize", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("method not allowed", func(t *testing.T) {
		p := okPipeline()
		h := NewHandler(p, Config{})
		req := httptest.NewRequest(http.MethodGet, "/summarize", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Zero(t, p.calls)
	})

	t.Run("body too large", func(t *testing.T) {
		p := okPipeline()
		h := NewHandler(p, Config{})
		req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(strings.Repeat("a", 64)))
		rec := httptest.NewRecorder()
		req.Body = http.MaxBytesReader(rec, req.Body, 16)

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.JSONEq(t, `{"error":"`+MsgBodyTooLarge+`"}`, rec.Body.String())
		assert.Zero(t, p.calls)
	})
}
