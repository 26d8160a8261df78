package fetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/observability/logging"
	"url-summarizer/internal/usecase/fetch"
)

type bridgeResponse struct {
	Result *struct {
		Markdown *string `json:"markdown"`
	} `json:"result"`
}

// Bridge fetches pages through a bridging server that fronts the scraper
// and answers {"result": {"markdown": "..."}}.
type Bridge struct {
	client *scrapeClient
}

// NewBridge creates a Bridge fetcher posting to cfg.BridgeURL.
func NewBridge(cfg Config, opts ...Option) *Bridge {
	return &Bridge{client: newScrapeClient("scraper-bridge", cfg, opts...)}
}

// CircuitOpen reports whether the upstream breaker is rejecting calls.
func (b *Bridge) CircuitOpen() bool { return b.client.breaker.IsOpen() }

// Fetch implements fetch.ContentFetcher.
func (b *Bridge) Fetch(ctx context.Context, url string) (entity.ScrapedContent, error) {
	body, err := b.client.post(ctx, newScrapeRequest(url, false))
	if err != nil {
		return entity.ScrapedContent{}, fetch.NewError(url, err)
	}

	var resp bridgeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		b.client.logPayload(ctx, "bridge response is not JSON", body)
		return entity.ScrapedContent{}, fetch.NewError(url, fmt.Errorf("%w: %v", fetch.ErrMalformedResponse, err))
	}
	if resp.Result == nil || resp.Result.Markdown == nil {
		b.client.logPayload(ctx, "bridge response has no markdown", body)
		return entity.ScrapedContent{}, fetch.NewError(url, fetch.ErrNoContent)
	}

	logging.FromContext(ctx).Debug("bridge scrape completed",
		"url", url,
		"markdown_bytes", len(*resp.Result.Markdown))
	return fetch.ContentOrPlaceholder(*resp.Result.Markdown), nil
}
