package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/handler/http/summarize"
)

type recordingPipeline struct {
	got []entity.SummaryRequest
}

func (p *recordingPipeline) Summarize(_ context.Context, req entity.SummaryRequest) (entity.SummaryResult, error) {
	p.got = append(p.got, req)
	return entity.SummaryResult{
		URL:       req.URL,
		Summary:   "要約",
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func newTestHandler() (*Handler, *recordingPipeline) {
	p := &recordingPipeline{}
	return New(summarize.NewHandler(p, summarize.Config{}), nil), p
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestInvoke_ProxyEvent(t *testing.T) {
	h, p := newTestHandler()

	resp, err := h.Invoke(context.Background(), mustJSON(t, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"url":"https://example.com/post","maxLength":200}`,
	}))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.JSONEq(t, `{"url":"https://example.com/post","summary":"要約","createdAt":"2025-01-02T03:04:05.000Z"}`, resp.Body)
	require.Len(t, p.got, 1)
	assert.Equal(t, 200, p.got[0].MaxLength)
}

func TestInvoke_Base64Body(t *testing.T) {
	h, p := newTestHandler()

	resp, err := h.Invoke(context.Background(), mustJSON(t, events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"url":"https://example.com/b64"}`)),
		IsBase64Encoded: true,
	}))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, p.got, 1)
	assert.Equal(t, "https://example.com/b64", p.got[0].URL)
}

func TestInvoke_Preflight(t *testing.T) {
	h, p := newTestHandler()

	resp, err := h.Invoke(context.Background(), mustJSON(t, events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions}))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Equal(t, "GET,POST,OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	assert.Empty(t, p.got)
}

func TestInvoke_DirectPayload(t *testing.T) {
	h, p := newTestHandler()
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-123"})

	resp, err := h.Invoke(ctx, json.RawMessage(`{"url":"https://example.com/direct"}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, p.got, 1)
	assert.Equal(t, "https://example.com/direct", p.got[0].URL)
}

func TestInvoke_BadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload json.RawMessage
	}{
		{name: "direct without url", payload: json.RawMessage(`{"maxLength":100}`)},
		{name: "not an object", payload: json.RawMessage(`"hello"`)},
		{name: "proxy with empty body", payload: json.RawMessage(`{"httpMethod":"POST","body":""}`)},
		{name: "invalid base64", payload: json.RawMessage(`{"httpMethod":"POST","body":"%%%","isBase64Encoded":true}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, p := newTestHandler()

			resp, err := h.Invoke(context.Background(), tt.payload)

			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.JSONEq(t, `{"error":"`+summarize.MsgURLMissing+`"}`, resp.Body)
			assert.Empty(t, p.got)
		})
	}
}
