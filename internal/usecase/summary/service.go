// Package summary implements the summarization pipeline: validate the URL,
// fetch the page content, then summarize it. Each call is independent; the
// Service holds only its collaborators.
package summary

import (
	"context"
	"log/slog"
	"time"

	"url-summarizer/internal/domain/entity"
	"url-summarizer/internal/observability/logging"
	"url-summarizer/internal/usecase/fetch"
	"url-summarizer/internal/utils/text"
)

// Summarizer turns page content into a summary of roughly maxLength characters.
// Failures are returned as *Error.
type Summarizer interface {
	Summarize(ctx context.Context, content string, maxLength int) (string, error)
}

// SummarizerFunc adapts a function to Summarizer.
type SummarizerFunc func(ctx context.Context, content string, maxLength int) (string, error)

// Summarize calls f(ctx, content, maxLength).
func (f SummarizerFunc) Summarize(ctx context.Context, content string, maxLength int) (string, error) {
	return f(ctx, content, maxLength)
}

// Service runs Fetch then Summarize for one URL.
type Service struct {
	Fetcher    fetch.ContentFetcher
	Summarizer Summarizer

	// Now stamps SummaryResult.CreatedAt. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a pipeline over the given collaborators.
func NewService(fetcher fetch.ContentFetcher, summarizer Summarizer) *Service {
	return &Service{Fetcher: fetcher, Summarizer: summarizer, Now: time.Now}
}

// Summarize validates req, fetches the page and summarizes it.
//
// Errors:
//   - *entity.ValidationError: url missing or not an absolute http(s) URL;
//     no external call was made
//   - *fetch.Error: the content fetcher failed
//   - *Error: the summarizer failed
func (s *Service) Summarize(ctx context.Context, req entity.SummaryRequest) (entity.SummaryResult, error) {
	if err := entity.ValidateURL(req.URL); err != nil {
		return entity.SummaryResult{}, err
	}

	content, err := s.Fetch(ctx, req.URL)
	if err != nil {
		return entity.SummaryResult{}, err
	}

	summary, err := s.SummarizeContent(ctx, content.Text, req.Options())
	if err != nil {
		return entity.SummaryResult{}, err
	}

	return entity.SummaryResult{
		URL:       req.URL,
		Summary:   summary,
		CreatedAt: s.now(),
	}, nil
}

// Fetch runs only the content fetcher. url must already be valid.
func (s *Service) Fetch(ctx context.Context, url string) (entity.ScrapedContent, error) {
	logger := logging.FromContext(ctx)
	logger.InfoContext(ctx, "scraping url", slog.String("url", url))

	start := time.Now()
	content, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return entity.ScrapedContent{}, fetch.NewError(url, err)
	}

	logger.InfoContext(ctx, "scraping completed",
		slog.String("url", url),
		slog.Int("content_length", text.CountRunes(content.Text)),
		slog.Duration("duration", time.Since(start)))
	return content, nil
}

// SummarizeContent runs only the summarizer.
func (s *Service) SummarizeContent(ctx context.Context, content string, opts entity.SummaryOptions) (string, error) {
	opts = opts.WithDefaults()
	summary, err := s.Summarizer.Summarize(ctx, content, opts.MaxLength)
	if err != nil {
		return "", NewError(err)
	}
	return summary, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
