package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recordingSleep captures backoff waits instead of sleeping
func recordingSleep(delays *[]time.Duration) func(time.Duration) {
	return func(d time.Duration) {
		*delays = append(*delays, d)
	}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	var delays []time.Duration
	calls := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, RetryOptions{sleep: recordingSleep(&delays)})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestRetry_NetworkErrorExhaustsRetries(t *testing.T) {
	var delays []time.Duration
	calls := 0
	netErr := &APIError{Kind: ErrorKindNetwork, Message: "request failed"}

	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return netErr
	}, RetryOptions{sleep: recordingSleep(&delays)})

	// One initial try plus MaxRetries retries, original error preserved
	assert.Equal(t, 4, calls)
	assert.Same(t, netErr, err)
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond, 4000 * time.Millisecond}, delays)
}

func TestRetry_DelayCappedAtMax(t *testing.T) {
	var delays []time.Duration

	err := Retry(context.Background(), func(ctx context.Context) error {
		return &APIError{Kind: ErrorKindNetwork}
	}, RetryOptions{MaxRetries: 6, sleep: recordingSleep(&delays)})

	assert.Error(t, err)
	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second,
		8 * time.Second, 10 * time.Second, 10 * time.Second,
	}, delays)
}

func TestRetry_ValidationErrorNeverRetried(t *testing.T) {
	calls := 0
	retries := 0
	valErr := &APIError{Kind: ErrorKindValidation, Status: 422, Message: "invalid"}

	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return valErr
	}, RetryOptions{
		OnRetry: func(attempt int, err error) { retries++ },
		sleep:   func(time.Duration) { t.Fatal("should not wait for a non-retryable error") },
	})

	assert.Equal(t, 1, calls)
	assert.Zero(t, retries)
	assert.Same(t, valErr, err)
}

func TestRetry_ServerErrorRetried_BadRequestNot(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedCalls int
	}{
		{"status_500_retried", 500, 4},
		{"status_400_not_retried", 400, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var delays []time.Duration
			calls := 0

			err := Retry(context.Background(), func(ctx context.Context) error {
				calls++
				return &APIError{Kind: ErrorKindAPI, Status: tt.status}
			}, RetryOptions{sleep: recordingSleep(&delays)})

			assert.Error(t, err)
			assert.Equal(t, tt.expectedCalls, calls)
		})
	}
}

func TestRetry_OnRetryCallbackObservesAttempts(t *testing.T) {
	var delays []time.Duration
	var attempts []int
	var seen []error
	failTwice := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		failTwice++
		if failTwice <= 2 {
			return &APIError{Kind: ErrorKindAPI, Status: 503}
		}
		return nil
	}, RetryOptions{
		OnRetry: func(attempt int, err error) {
			attempts = append(attempts, attempt)
			seen = append(seen, err)
		},
		sleep: recordingSleep(&delays),
	})

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, attempts)
	assert.Len(t, seen, 2)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestRetry_ForeignErrorNotRetried(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("some application bug")
	}, RetryOptions{sleep: func(time.Duration) {}})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_TransientMessageRetried(t *testing.T) {
	var delays []time.Duration
	calls := 0

	err := Retry(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("read tcp: i/o timeout")
	}, RetryOptions{MaxRetries: 2, sleep: recordingSleep(&delays)})

	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, delays, 2)
}
