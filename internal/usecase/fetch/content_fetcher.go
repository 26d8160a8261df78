// Package fetch defines how the pipeline obtains page content. Implementations
// live in internal/infra/fetcher; exactly one is active per deployment.
package fetch

import (
	"context"

	"url-summarizer/internal/domain/entity"
)

// EmptyContentPlaceholder is returned in place of an empty markdown body.
// Empty content is not an error; the summarizer still runs on the placeholder.
const EmptyContentPlaceholder = "(コンテンツが取得できませんでした)"

// ContentFetcher obtains a markdown rendition of a page's main content.
//
// url has already been validated as an absolute http(s) URL. Every failure
// is returned as *Error; the raw upstream payload is logged by the
// implementation and never included in the error.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (entity.ScrapedContent, error)
}

// ContentFetcherFunc adapts a function to ContentFetcher.
type ContentFetcherFunc func(ctx context.Context, url string) (entity.ScrapedContent, error)

// Fetch calls f(ctx, url).
func (f ContentFetcherFunc) Fetch(ctx context.Context, url string) (entity.ScrapedContent, error) {
	return f(ctx, url)
}

// ContentOrPlaceholder applies the empty-content rule shared by every mode.
func ContentOrPlaceholder(markdown string) entity.ScrapedContent {
	if markdown == "" {
		return entity.ScrapedContent{Text: EmptyContentPlaceholder}
	}
	return entity.ScrapedContent{Text: markdown}
}
