package fetcher

import (
	"fmt"
	"log/slog"

	"url-summarizer/internal/usecase/fetch"
)

// New returns the ContentFetcher for cfg.Mode.
func New(cfg Config, opts ...Option) (fetch.ContentFetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scraper config: %w", err)
	}

	switch cfg.Mode {
	case ModeFirecrawl:
		if cfg.APIKey == "" {
			slog.Warn("FIRECRAWL_API_KEY is not set; scrape requests will be sent without authorization")
		}
		return NewFirecrawl(cfg, opts...), nil
	case ModeBridge:
		return NewBridge(cfg, opts...), nil
	default:
		return NewLocal(cfg, opts...), nil
	}
}
