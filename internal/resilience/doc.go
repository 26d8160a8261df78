// Package resilience groups the fault-tolerance helpers used around the two
// upstream calls of the pipeline (scraping and generation).
//
//	cb := circuitbreaker.New(circuitbreaker.ScraperConfig("firecrawl"))
//	content, err := circuitbreaker.Execute(cb, func() (string, error) {
//	    return scrape(ctx, url)
//	})
//
//	err := retry.WithBackoff(ctx, retry.UpstreamConfig(attempts), func() error {
//	    return performOperation()
//	})
//
// Retries are opt-in: with MaxAttempts <= 1 WithBackoff calls fn exactly once
// and returns its error untouched.
package resilience
