package fetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/observability/logging"
	"url-summarizer/internal/usecase/fetch"
)

// waitForMillis gives client-rendered pages time to settle before capture.
const waitForMillis = 3000

type scrapeRequest struct {
	URL                string   `json:"url"`
	Formats            []string `json:"formats"`
	OnlyMainContent    bool     `json:"onlyMainContent"`
	WaitFor            int      `json:"waitFor"`
	RemoveBase64Images bool     `json:"removeBase64Images"`
	BlockAds           *bool    `json:"blockAds,omitempty"`
}

func newScrapeRequest(url string, blockAds bool) scrapeRequest {
	req := scrapeRequest{
		URL:                url,
		Formats:            []string{"markdown"},
		OnlyMainContent:    true,
		WaitFor:            waitForMillis,
		RemoveBase64Images: true,
	}
	if blockAds {
		req.BlockAds = &blockAds
	}
	return req
}

type firecrawlResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		// Markdown is a pointer so a missing field and an empty page differ.
		Markdown *string `json:"markdown"`
	} `json:"data"`
}

// Firecrawl fetches pages through the Firecrawl scrape API.
type Firecrawl struct {
	client *scrapeClient
}

// NewFirecrawl creates a Firecrawl fetcher. cfg.APIKey is sent as a bearer token.
func NewFirecrawl(cfg Config, opts ...Option) *Firecrawl {
	return &Firecrawl{client: newScrapeClient("firecrawl", cfg, opts...)}
}

// CircuitOpen reports whether the upstream breaker is rejecting calls.
func (f *Firecrawl) CircuitOpen() bool { return f.client.breaker.IsOpen() }

// Fetch implements fetch.ContentFetcher.
func (f *Firecrawl) Fetch(ctx context.Context, url string) (entity.ScrapedContent, error) {
	body, err := f.client.post(ctx, newScrapeRequest(url, true))
	if err != nil {
		return entity.ScrapedContent{}, fetch.NewError(url, err)
	}

	var resp firecrawlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		f.client.logPayload(ctx, "firecrawl response is not JSON", body)
		return entity.ScrapedContent{}, fetch.NewError(url, fmt.Errorf("%w: %v", fetch.ErrMalformedResponse, err))
	}
	if !resp.Success || resp.Data == nil || resp.Data.Markdown == nil {
		f.client.logPayload(ctx, "firecrawl response has no markdown", body)
		return entity.ScrapedContent{}, fetch.NewError(url, fetch.ErrNoContent)
	}

	content := fetch.ContentOrPlaceholder(*resp.Data.Markdown)
	logging.FromContext(ctx).Debug("firecrawl scrape completed",
		"url", url,
		"markdown_bytes", len(*resp.Data.Markdown))
	return content, nil
}
