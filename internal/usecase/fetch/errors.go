package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors describing why a fetch failed. They are wrapped inside
// *Error so the caller sees one error type at the pipeline boundary.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an unsupported scheme.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private IP address (SSRF prevention).
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrUpstreamStatus indicates the scraping service answered with a non-2xx status.
	ErrUpstreamStatus = errors.New("unexpected upstream status")

	// ErrMalformedResponse indicates the upstream body could not be decoded.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrNoContent indicates the upstream response lacked the success flag or
	// the markdown field. The message mirrors what end users have always seen.
	ErrNoContent = errors.New("スクレイピング結果が取得できませんでした")

	// ErrExtractionFailed indicates local content extraction failed.
	ErrExtractionFailed = errors.New("content extraction failed")
)

// Error is the FetchError of the pipeline: any failure to obtain page content.
type Error struct {
	URL string
	Err error
}

// NewError wraps err as a fetch failure for url. Wrapping an *Error again is a no-op.
func NewError(url string, err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{URL: url, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("スクレイピングに失敗しました: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
