package summarize

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"url-summarizer/internal/domain/entity"
)

// errMaxLengthInvalid marks a maxLength that is neither an integer nor a
// numeric string.
var errMaxLengthInvalid = errors.New("maxLength must be an integer")

// wireRequest keeps each field raw so a wrongly typed field can be told
// apart from a missing one.
type wireRequest struct {
	URL       json.RawMessage `json:"url"`
	MaxLength json.RawMessage `json:"maxLength"`
}

// decodeRequest parses a request body. Errors are *entity.ValidationError
// for the url field, or errMaxLengthInvalid.
//
//   - body not a JSON object, url absent or null: ErrURLMissing
//   - url present but not a string: ErrURLInvalid
//   - maxLength as a number or a numeric string ("300") is accepted
func decodeRequest(body string) (entity.SummaryRequest, error) {
	var w wireRequest
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return entity.SummaryRequest{}, &entity.ValidationError{
			Field: "body", Message: "body is not a JSON object: " + err.Error(), Kind: entity.ErrURLMissing,
		}
	}

	var req entity.SummaryRequest
	if !isAbsent(w.URL) {
		if err := json.Unmarshal(w.URL, &req.URL); err != nil {
			return entity.SummaryRequest{}, &entity.ValidationError{
				Field: "url", Message: "url must be a string", Kind: entity.ErrURLInvalid,
			}
		}
	}

	if !isAbsent(w.MaxLength) {
		n, err := parseMaxLength(w.MaxLength)
		if err != nil {
			return entity.SummaryRequest{}, err
		}
		req.MaxLength = n
	}
	return req, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func parseMaxLength(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, nil
		}
	}
	return 0, errMaxLengthInvalid
}
