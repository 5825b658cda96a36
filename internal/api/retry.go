package api

import (
	"context"
	"time"
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 1000 * time.Millisecond
	defaultMaxDelay     = 10000 * time.Millisecond
)

// RetryOptions configures Retry. Zero values fall back to the defaults
// (3 retries, 1s initial delay, 10s cap).
type RetryOptions struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// OnRetry is invoked before each wait with the upcoming retry number
	// (1-based) and the error that triggered it
	OnRetry func(attempt int, err error)

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

func (o *RetryOptions) applyDefaults() {
	if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = defaultInitialDelay
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = defaultMaxDelay
	}
	if o.sleep == nil {
		o.sleep = time.Sleep
	}
}

// Retry runs op, retrying classified-retryable failures with exponential
// backoff: delay = min(InitialDelay * 2^attempt, MaxDelay). Attempts are
// numbered from 0 and the loop runs MaxRetries+1 total attempts. The last
// observed error is returned untouched; non-retryable failures surface
// immediately. There is no cancellation of the inter-attempt wait; op owns
// any inner timeout via ctx.
func Retry(ctx context.Context, op func(context.Context) error, opts RetryOptions) error {
	opts.applyDefaults()

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) || attempt == opts.MaxRetries {
			return lastErr
		}
		delay := opts.InitialDelay << uint(attempt)
		if delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
		if opts.OnRetry != nil {
			opts.OnRetry(attempt+1, lastErr)
		}
		opts.sleep(delay)
	}
	return lastErr
}
