package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"url-summarizer/internal/observability/logging"
	"url-summarizer/internal/resilience/circuitbreaker"
	"url-summarizer/internal/resilience/retry"
	"url-summarizer/internal/usecase/fetch"
	"url-summarizer/internal/utils/text"
)

// payloadLogLimit bounds how much of a raw upstream payload is written to logs.
const payloadLogLimit = 2000

// Option customizes a fetcher.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// scrapeClient is the transport shared by the API-backed modes: one JSON
// POST per page, optionally rate limited, retried and guarded by a breaker.
type scrapeClient struct {
	name     string
	endpoint string
	apiKey   string
	timeout  time.Duration
	maxBody  int64
	client   *http.Client
	limiter  *rate.Limiter
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
}

func newScrapeClient(name string, cfg Config, opts ...Option) *scrapeClient {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = newHTTPClient(cfg.Timeout)
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	cbCfg := circuitbreaker.ScraperConfig(name)
	cbCfg.IsSuccessful = countsAsSuccess

	return &scrapeClient{
		name:     name,
		endpoint: cfg.Endpoint(),
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		maxBody:  cfg.MaxBodySize,
		client:   o.httpClient,
		limiter:  limiter,
		breaker:  circuitbreaker.New(cbCfg),
		retry:    retry.UpstreamConfig(cfg.MaxAttempts),
	}
}

// countsAsSuccess keeps page-level problems (4xx, nothing extracted) from
// tripping the breaker. Only transport failures and 5xx count.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode < 500 && httpErr.StatusCode != http.StatusTooManyRequests
	}
	return errors.Is(err, fetch.ErrNoContent) || errors.Is(err, fetch.ErrMalformedResponse)
}

// post sends payload and returns the raw 2xx response body.
func (c *scrapeClient) post(ctx context.Context, payload any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode scrape request: %w", err)
	}

	var body []byte
	err = retry.WithBackoff(ctx, c.retry, func() error {
		b, err := circuitbreaker.Execute(c.breaker, func() ([]byte, error) {
			return c.do(ctx, reqBody)
		})
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *scrapeClient) do(ctx context.Context, reqBody []byte) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(reqCtx, err) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s did not answer within %v: %w",
				fetch.ErrTimeout, c.name, c.timeout, retry.ErrAttemptTimeout)
		}
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", c.name, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s response exceeds %d bytes", fetch.ErrBodyTooLarge, c.name, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.FromContext(ctx).Warn("scraping service returned error status",
			"service", c.name,
			"status", resp.StatusCode,
			"payload", text.Clip(string(body), payloadLogLimit))
		return nil, fmt.Errorf("%w: %w", fetch.ErrUpstreamStatus,
			&retry.HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)})
	}

	return body, nil
}

// logPayload records a response the fetcher could not use. The payload
// goes to the log only, never into the returned error.
func (c *scrapeClient) logPayload(ctx context.Context, msg string, body []byte) {
	logging.FromContext(ctx).Warn(msg,
		"service", c.name,
		"payload", text.Clip(string(body), payloadLogLimit))
}

// isTimeout reports whether a failed call ran out of its own time budget,
// either through the request context or the client's Timeout.
func isTimeout(reqCtx context.Context, err error) bool {
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
