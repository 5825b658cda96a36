package api

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_NilError(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassify_TransportError(t *testing.T) {
	err := &url.Error{Op: "Get", URL: "http://localhost:8000/api/drafts", Err: errors.New("connection refused")}

	apiErr := Classify(err)

	assert.Equal(t, ErrorKindNetwork, apiErr.Kind)
	assert.True(t, apiErr.Retryable())
	assert.ErrorIs(t, apiErr, err)
}

func TestClassify_PassesThroughAPIError(t *testing.T) {
	orig := &APIError{Kind: ErrorKindValidation, Status: 422, Message: "invalid subject"}

	wrapped := fmt.Errorf("save draft: %w", orig)

	assert.Same(t, orig, Classify(orig))
	assert.Same(t, orig, Classify(wrapped))
}

func TestClassify_UnknownWithTransientMessage(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		retryable bool
	}{
		{"timeout_substring", "operation Timeout while reading", true},
		{"network_substring", "NETWORK is down", true},
		{"econnrefused_substring", "dial tcp: ECONNREFUSED", true},
		{"econnaborted_substring", "socket econnaborted mid-flight", true},
		{"plain_error", "something else broke", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := Classify(errors.New(tt.message))

			assert.Equal(t, ErrorKindUnknown, apiErr.Kind)
			assert.Equal(t, tt.retryable, apiErr.Retryable())
		})
	}
}

func TestAPIError_Retryable_ByStatus(t *testing.T) {
	tests := []struct {
		name      string
		kind      ErrorKind
		status    int
		retryable bool
	}{
		{"validation_422", ErrorKindValidation, 422, false},
		{"api_400", ErrorKindAPI, 400, false},
		{"api_404", ErrorKindAPI, 404, false},
		{"api_408", ErrorKindAPI, 408, true},
		{"api_429", ErrorKindAPI, 429, true},
		{"api_500", ErrorKindAPI, 500, true},
		{"api_503", ErrorKindAPI, 503, true},
		{"network", ErrorKindNetwork, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &APIError{Kind: tt.kind, Status: tt.status}
			assert.Equal(t, tt.retryable, apiErr.Retryable())
		})
	}
}

func TestAPIError_UserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{"bad_request", &APIError{Kind: ErrorKindAPI, Status: 400}, "Invalid request"},
		{"unauthorized", &APIError{Kind: ErrorKindAPI, Status: 401}, "Authentication required"},
		{"forbidden", &APIError{Kind: ErrorKindAPI, Status: 403}, "Access forbidden"},
		{"not_found", &APIError{Kind: ErrorKindAPI, Status: 404}, "Resource not found"},
		{"request_timeout", &APIError{Kind: ErrorKindAPI, Status: 408}, "The server is busy, please retry in a moment"},
		{"rate_limited", &APIError{Kind: ErrorKindAPI, Status: 429}, "The server is busy, please retry in a moment"},
		{"server_error", &APIError{Kind: ErrorKindAPI, Status: 500}, "The server is unavailable right now"},
		{"bad_gateway", &APIError{Kind: ErrorKindAPI, Status: 502}, "The server is unavailable right now"},
		{"network", &APIError{Kind: ErrorKindNetwork}, "Cannot reach the server, check your connection"},
		{"validation_with_detail", &APIError{Kind: ErrorKindValidation, Status: 422, Message: "subject must not be blank"}, "subject must not be blank"},
		{"unknown_with_message", &APIError{Kind: ErrorKindUnknown, Message: "weird failure"}, "weird failure"},
		{"unknown_empty", &APIError{Kind: ErrorKindUnknown}, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.UserMessage())
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(&APIError{Kind: ErrorKindAPI, Status: 503}))
	assert.False(t, IsRetryable(errors.New("boom")))
}
