package summary

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse indicates the generation service returned no usable text.
var ErrEmptyResponse = errors.New("generation service returned no content")

// Error is the SummarizeError of the pipeline: the generation call failed or
// its response did not have the expected shape.
type Error struct {
	Err error
}

// NewError wraps err as a summarization failure. Wrapping an *Error again is a no-op.
func NewError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("テキスト要約に失敗しました: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
