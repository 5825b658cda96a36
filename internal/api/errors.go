package api

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorKind classifies a failed backend operation
type ErrorKind string

const (
	// ErrorKindNetwork means no response was received at all
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindValidation is a 422 response with optional field errors
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindAPI is any other HTTP error response
	ErrorKindAPI ErrorKind = "api"
	// ErrorKindUnknown is anything we could not recognize
	ErrorKindUnknown ErrorKind = "unknown"
)

// transientSubstrings mark otherwise-unrecognized errors as retryable when
// their message suggests a transport-level failure
var transientSubstrings = []string{"timeout", "network", "econnrefused", "econnaborted"}

// APIError is the classified form of a failed backend call
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Body    string
	// Fields carries per-field validation messages for 422 responses
	Fields map[string][]string
	Err    error
}

func (e *APIError) Error() string {
	switch {
	case e.Status > 0:
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	case e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	default:
		return e.Message
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether re-attempting the same operation is expected to
// plausibly succeed
func (e *APIError) Retryable() bool {
	switch e.Kind {
	case ErrorKindNetwork:
		return true
	case ErrorKindValidation:
		return false
	case ErrorKindAPI:
		return e.Status >= 500 || e.Status == 429 || e.Status == 408
	default:
		return hasTransientSubstring(e.Message)
	}
}

// UserMessage maps the error to a short human-readable string for the UI
func (e *APIError) UserMessage() string {
	switch e.Status {
	case 400:
		return "Invalid request"
	case 401:
		return "Authentication required"
	case 403:
		return "Access forbidden"
	case 404:
		return "Resource not found"
	case 408, 429:
		return "The server is busy, please retry in a moment"
	case 500, 502, 503, 504:
		return "The server is unavailable right now"
	}
	if e.Kind == ErrorKindNetwork {
		return "Cannot reach the server, check your connection"
	}
	if e.Kind == ErrorKindValidation {
		if e.Message != "" {
			return e.Message
		}
		return "The request was rejected as invalid"
	}
	if e.Message != "" {
		return e.Message
	}
	return "An unexpected error occurred"
}

// Classify converts an arbitrary failure into an APIError. Errors produced
// by Client are returned as-is; transport errors become network errors;
// anything else is unknown. Pure: no side effects.
func Classify(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &APIError{Kind: ErrorKindNetwork, Message: "request failed", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &APIError{Kind: ErrorKindNetwork, Message: "request failed", Err: err}
	}
	return &APIError{Kind: ErrorKindUnknown, Message: err.Error(), Err: err}
}

// IsRetryable classifies err and reports whether it should be retried
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return Classify(err).Retryable()
}

func hasTransientSubstring(msg string) bool {
	lower := strings.ToLower(msg)
	for _, s := range transientSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
