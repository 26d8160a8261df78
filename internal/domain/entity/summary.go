// Package entity holds the request-scoped values that flow through the
// summarization pipeline. Nothing here is persisted.
package entity

import (
	"encoding/json"
	"time"
)

// DefaultMaxLength is the advisory summary length, in characters, used when
// the caller does not supply one.
const DefaultMaxLength = 1000

// CreatedAtLayout renders timestamps as ISO-8601 UTC with millisecond precision.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// SummaryRequest is the inbound payload.
type SummaryRequest struct {
	URL       string `json:"url"`
	MaxLength int    `json:"maxLength,omitempty"`
}

// Options returns the summary options implied by the request.
func (r SummaryRequest) Options() SummaryOptions {
	return SummaryOptions{MaxLength: r.MaxLength}.WithDefaults()
}

// ScrapedContent is the markdown representation of a page's main content.
type ScrapedContent struct {
	Text string
}

// SummaryOptions tunes a single summarization.
type SummaryOptions struct {
	// MaxLength is an approximate character budget embedded in the prompt.
	// It does not cap the generation token limit.
	MaxLength int
}

// WithDefaults fills unset fields.
func (o SummaryOptions) WithDefaults() SummaryOptions {
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	return o
}

// SummaryResult is returned to the caller on success.
type SummaryResult struct {
	URL       string
	Summary   string
	CreatedAt time.Time
}

// MarshalJSON renders the result as {url, summary, createdAt}.
func (r SummaryResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URL       string `json:"url"`
		Summary   string `json:"summary"`
		CreatedAt string `json:"createdAt"`
	}{
		URL:       r.URL,
		Summary:   r.Summary,
		CreatedAt: r.CreatedAt.UTC().Format(CreatedAtLayout),
	})
}

// ErrorResult is returned on any failure path.
type ErrorResult struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}
