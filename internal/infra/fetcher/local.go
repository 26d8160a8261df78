package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/observability/logging"
	"url-summarizer/internal/resilience/circuitbreaker"
	"url-summarizer/internal/resilience/retry"
	"url-summarizer/internal/usecase/fetch"
)

// userAgent identifies local-mode requests to the target site.
const userAgent = "URLSummarizerBot/1.0"

// adSelectors approximates the scraping service's ad blocking.
var adSelectors = strings.Join([]string{
	"script",
	"style",
	"noscript",
	"iframe",
	"[class*='advert']",
	"[id*='advert']",
	"[class*='sponsor']",
	".ads",
	".ad",
	"ins.adsbygoogle",
}, ", ")

// Local fetches the page itself and extracts the main content in-process:
// goquery strips inline images and ad containers, go-readability picks the
// main article, html-to-markdown renders it.
//
// Every dialed URL (including redirect targets) is checked against private
// address ranges when DenyPrivateIPs is set.
type Local struct {
	client    *http.Client
	breaker   *circuitbreaker.CircuitBreaker
	retry     retry.Config
	converter *md.Converter
	config    Config
}

// NewLocal creates a Local fetcher.
func NewLocal(cfg Config, opts ...Option) *Local {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = newHTTPClient(cfg.Timeout)
	}

	cbCfg := circuitbreaker.ScraperConfig("local-fetch")
	cbCfg.IsSuccessful = countsAsSuccess

	l := &Local{
		breaker:   circuitbreaker.New(cbCfg),
		retry:     retry.UpstreamConfig(cfg.MaxAttempts),
		converter: md.NewConverter("", true, nil),
		config:    cfg,
	}

	client := *o.httpClient
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= cfg.MaxRedirects {
			return fmt.Errorf("%w: %d redirects", fetch.ErrTooManyRedirects, len(via))
		}
		if err := validateTarget(req.URL.String(), cfg.DenyPrivateIPs); err != nil {
			return fmt.Errorf("redirect target validation failed: %w", err)
		}
		return nil
	}
	l.client = &client
	return l
}

// CircuitOpen reports whether the local-fetch breaker is rejecting calls.
func (l *Local) CircuitOpen() bool { return l.breaker.IsOpen() }

// Fetch implements fetch.ContentFetcher.
func (l *Local) Fetch(ctx context.Context, urlStr string) (entity.ScrapedContent, error) {
	if err := validateTarget(urlStr, l.config.DenyPrivateIPs); err != nil {
		return entity.ScrapedContent{}, fetch.NewError(urlStr, err)
	}

	var markdown string
	err := retry.WithBackoff(ctx, l.retry, func() error {
		out, err := circuitbreaker.Execute(l.breaker, func() (string, error) {
			return l.fetchMarkdown(ctx, urlStr)
		})
		if err != nil {
			return err
		}
		markdown = out
		return nil
	})
	if err != nil {
		return entity.ScrapedContent{}, fetch.NewError(urlStr, err)
	}

	logging.FromContext(ctx).Debug("local scrape completed",
		"url", urlStr,
		"markdown_bytes", len(markdown))
	return fetch.ContentOrPlaceholder(markdown), nil
}

func (l *Local) fetchMarkdown(ctx context.Context, urlStr string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", fetch.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		if isTimeout(reqCtx, err) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: request exceeded %v: %w", fetch.ErrTimeout, l.config.Timeout, retry.ErrAttemptTimeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && (errors.Is(urlErr.Err, fetch.ErrTooManyRedirects) ||
			errors.Is(urlErr.Err, fetch.ErrPrivateIP) || errors.Is(urlErr.Err, fetch.ErrInvalidURL)) {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %w", fetch.ErrUpstreamStatus,
			&retry.HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)})
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, l.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > l.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			fetch.ErrBodyTooLarge, len(htmlBytes), l.config.MaxBodySize)
	}

	pageURL := resp.Request.URL
	return l.extract(htmlBytes, pageURL)
}

// extract turns a raw HTML page into markdown of its main content. An empty
// result is returned as "" and becomes the placeholder upstream.
func (l *Local) extract(htmlBytes []byte, pageURL *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", fetch.ErrExtractionFailed, err)
	}
	doc.Find("img[src^='data:']").Remove()
	doc.Find(adSelectors).Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("%w: render html: %v", fetch.ErrExtractionFailed, err)
	}

	article, err := readability.FromReader(strings.NewReader(cleaned), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", fetch.ErrExtractionFailed, err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", nil
	}

	markdown, err := l.converter.ConvertString(article.Content)
	if err != nil {
		return "", fmt.Errorf("%w: markdown conversion: %v", fetch.ErrExtractionFailed, err)
	}
	return strings.TrimSpace(markdown), nil
}
