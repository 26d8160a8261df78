package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// ValidateURL checks that rawURL is an absolute http or https URL with a host.
// It never touches the network; SSRF checks belong to fetchers that dial the
// target themselves.
func ValidateURL(rawURL string) error {
	// 空白のみは「未指定」ではなく不正なURLとして扱う
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required", Kind: ErrURLMissing}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
			Kind:    ErrURLInvalid,
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "parse URL: " + err.Error(), Kind: ErrURLInvalid}
	}

	// HTTPまたはHTTPSスキームのみ許可
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme", Kind: ErrURLInvalid}
	}

	if parsedURL.Hostname() == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host", Kind: ErrURLInvalid}
	}

	return nil
}
