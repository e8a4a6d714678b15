// Package worker holds the concurrency plumbing: retries, circuit
// breaking, rate limiting, and the batch pool used by the CLI.
package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trustlens/internal/model"
)

// retrySleep is the sleep function used between attempts (injectable for tests)
var retrySleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// RetryableError marks a transient failure worth retrying
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retryable wraps err as transient. Returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is marked transient
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// IsTransientStatus reports whether an HTTP status is worth retrying.
// 4xx other than 429 is a permanent failure.
func IsTransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Retryer retries transient failures with capped exponential backoff
type Retryer struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// NewRetryer creates a retryer from configuration
func NewRetryer(cfg model.RetryConfig) *Retryer {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	baseDelay := time.Duration(cfg.BaseDelayMs) * time.Millisecond
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	maxDelay := time.Duration(cfg.MaxDelayMs) * time.Millisecond
	if maxDelay <= 0 {
		maxDelay = 8 * time.Second
	}
	return &Retryer{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
	}
}

// Do runs fn until it succeeds, fails permanently, or attempts run out.
// Delay doubles per attempt: base, base*2, base*4, ... capped at maxDelay.
func (r *Retryer) Do(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt == r.maxAttempts-1 {
			break
		}

		delay := r.baseDelay << attempt
		if delay > r.maxDelay {
			delay = r.maxDelay
		}
		if sleepErr := retrySleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}
	return err
}
