// Package aierrors provides structured error types for the external AI
// collaborator and its surrounding workflow.
//
// The taxonomy mirrors the error-handling policy of the service:
// configuration errors are fatal to AI-dependent operations and never
// retried; malformed-response errors are a distinct kind from transport
// failures so callers can decide whether a retry makes sense; soft data
// errors (bad dates, bad filter ranges) never appear here at all — they
// cause silent exclusion, not errors.
package aierrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrMissingCredential means the AI API key is not configured.
	ErrMissingCredential = errors.New("ai credential not configured")
	// ErrInvalidInput means the request had neither text nor file data,
	// or a briefing was requested for an event without an analysis.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTimeout marks a request that exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")
	// ErrUnavailable marks a temporarily unreachable collaborator.
	ErrUnavailable = errors.New("service unavailable")
)

// APIError represents a transport-level failure of an external API call:
// network errors and non-2xx responses, wrapped with context.
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API error (status %d): %s: %v", e.Service, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError creates a new API error.
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{Service: service, StatusCode: statusCode, Message: message}
}

// ParseError means the collaborator answered, but the payload was not
// well-formed structured data. Distinct from APIError so callers can tell
// "the model produced garbage" apart from "the network failed".
type ParseError struct {
	Service string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s returned malformed payload: %v", e.Service, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a new parse error.
func NewParseError(service string, err error) *ParseError {
	return &ParseError{Service: service, Err: err}
}

// IsRetryable reports whether the error is likely transient. Nothing in the
// service retries automatically; this exists so callers deciding on a manual
// retry can classify the failure.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable)
}
