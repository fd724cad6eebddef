package engine

import (
	"errors"
	"fmt"
)

// Errors that cross the scraper boundary. Every other anomaly on a page is
// absorbed by the extractor and shows up as a nil field.
var (
	ErrInvalidURL  = errors.New("invalid URL")
	ErrFetchFailed = errors.New("fetch failed")
	ErrTimeout     = errors.New("request timeout")
	ErrParseError  = errors.New("failed to parse response")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeInvalidURL  ErrorCode = "INVALID_URL"
	ErrCodeFetchFailed ErrorCode = "FETCH_FAILED"
	ErrCodeTimeout     ErrorCode = "TIMEOUT"
	ErrCodeParseError  ErrorCode = "PARSE_ERROR"
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeInvalidURL:  ErrInvalidURL,
	ErrCodeFetchFailed: ErrFetchFailed,
	ErrCodeTimeout:     ErrTimeout,
	ErrCodeParseError:  ErrParseError,
}

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Underlying error
	Retry      bool
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is matches another EngineError with the same code, the sentinel for this
// code, or anything the underlying error matches.
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	if sentinel, ok := codeSentinels[e.Code]; ok && sentinel == target {
		return true
	}
	return errors.Is(e.Underlying, target)
}

// GetStatusCode exposes the upstream HTTP status so retry policies can inspect it
func (e *EngineError) GetStatusCode() int {
	return e.StatusCode
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Retry:      false,
		Details:    make(map[string]interface{}),
	}
}

// NewFetchError reports a non-2xx upstream response
func NewFetchError(statusCode int, status string) *EngineError {
	e := NewEngineError(ErrCodeFetchFailed, fmt.Sprintf("upstream responded %s", status), nil)
	e.StatusCode = statusCode
	return e.WithDetail("status", statusCode)
}

// WithRetry marks the error as retryable
func (e *EngineError) WithRetry() *EngineError {
	e.Retry = true
	return e
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	e.Details[key] = value
	return e
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an EngineError
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// Retryable reports whether the failed operation may succeed if repeated
func (e *EngineError) Retryable() bool {
	return e.Retry
}
