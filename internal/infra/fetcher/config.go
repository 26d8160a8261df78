package fetcher

import (
	"fmt"
	"net/url"
	"time"
)

// Mode selects which scraping integration backs the ContentFetcher.
type Mode string

const (
	// ModeFirecrawl calls the hosted Firecrawl scrape API with a bearer key.
	ModeFirecrawl Mode = "firecrawl"
	// ModeBridge calls a local or remote bridging server that fronts the scraper.
	ModeBridge Mode = "bridge"
	// ModeLocal fetches the page directly and extracts the main content in-process.
	ModeLocal Mode = "local"
)

// Config holds configuration for content fetching. Field tags are read by
// internal/config with github.com/caarlos0/env.
type Config struct {
	// Mode selects the integration. Exactly one is active per deployment.
	Mode Mode `env:"SCRAPER_MODE" envDefault:"firecrawl"`

	// FirecrawlEndpoint is the scrape endpoint used in firecrawl mode.
	FirecrawlEndpoint string `env:"FIRECRAWL_API_ENDPOINT" envDefault:"https://api.firecrawl.dev/v1/scrape"`

	// APIKey is sent as a bearer token when set. Firecrawl needs it; a
	// bridge usually does not.
	APIKey string `env:"FIRECRAWL_API_KEY"`

	// BridgeURL is the scrape endpoint used in bridge mode.
	BridgeURL string `env:"SCRAPER_BRIDGE_URL" envDefault:"http://localhost:3000/scrape"`

	// Timeout bounds a single upstream call.
	Timeout time.Duration `env:"SCRAPER_TIMEOUT" envDefault:"60s"`

	// MaxAttempts is the number of tries for transient failures. 1 disables retries.
	MaxAttempts int `env:"SCRAPER_MAX_ATTEMPTS" envDefault:"1"`

	// RateLimit caps outbound scrape calls per second for this process. 0 disables it.
	RateLimit float64 `env:"SCRAPER_RATE_LIMIT" envDefault:"0"`

	// MaxBodySize limits how much of an upstream response is read.
	MaxBodySize int64 `env:"SCRAPER_MAX_BODY_SIZE" envDefault:"10485760"`

	// MaxRedirects limits redirect chains in local mode.
	MaxRedirects int `env:"SCRAPER_MAX_REDIRECTS" envDefault:"5"`

	// DenyPrivateIPs blocks local-mode fetches of loopback/private/link-local targets.
	DenyPrivateIPs bool `env:"SCRAPER_DENY_PRIVATE_IPS" envDefault:"true"`
}

// DefaultConfig returns the same values as the env defaults.
func DefaultConfig() Config {
	return Config{
		Mode:              ModeFirecrawl,
		FirecrawlEndpoint: "https://api.firecrawl.dev/v1/scrape",
		BridgeURL:         "http://localhost:3000/scrape",
		Timeout:           60 * time.Second,
		MaxAttempts:       1,
		MaxBodySize:       10 * 1024 * 1024,
		MaxRedirects:      5,
		DenyPrivateIPs:    true,
	}
}

// Endpoint returns the upstream URL for API-backed modes.
func (c Config) Endpoint() string {
	if c.Mode == ModeBridge {
		return c.BridgeURL
	}
	return c.FirecrawlEndpoint
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeFirecrawl, ModeBridge:
		u, err := url.Parse(c.Endpoint())
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("scraper endpoint for mode %q must be an absolute http(s) URL, got %q", c.Mode, c.Endpoint())
		}
	case ModeLocal:
	default:
		return fmt.Errorf("unknown scraper mode %q (want firecrawl, bridge or local)", c.Mode)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 5 {
		return fmt.Errorf("max attempts must be between 1 and 5, got %d", c.MaxAttempts)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative, got %v", c.RateLimit)
	}

	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}
