package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/use-agent/bingdict/dict"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodePageLayout      = "PAGE_LAYOUT_CHANGED"
	ErrCodeDecode          = "DECODE_FAILED"
	ErrCodeUpstream        = "UPSTREAM_FAILED"
	ErrCodeUpstreamTimeout = "UPSTREAM_TIMEOUT"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DictError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type DictError struct {
	Code    string
	Message string
	Err     error
}

func (e *DictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DictError) Unwrap() error {
	return e.Err
}

// NewDictError creates a new DictError.
func NewDictError(code, message string, err error) *DictError {
	return &DictError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *DictError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// Classify maps any error returned by the translate path to a DictError.
// Errors that already carry a code are returned unchanged.
func Classify(err error) *DictError {
	var de *DictError
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, dict.ErrPageLayout):
		return NewDictError(ErrCodePageLayout, "dictionary page layout not recognised", err)
	case errors.Is(err, dict.ErrDecode):
		return NewDictError(ErrCodeDecode, "dictionary returned undecodable text", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewDictError(ErrCodeUpstreamTimeout, "dictionary request timed out", err)
	default:
		return NewDictError(ErrCodeInternal, err.Error(), err)
	}
}
