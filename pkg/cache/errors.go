package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps backend failures that may succeed on retry, such as a
// refused or timed-out redis connection.
var ErrUnavailable = errors.New("cache: backend unavailable")

// RetryableError marks an error as transient for RetryWithBackoff.
// Backends wrap network failures with Retryable and leave logical failures
// (bad replies, cancelled contexts) unwrapped so they fail fast:
//
//	err := RetryWithBackoff(ctx, func() error {
//	    return classify(client.Ping(ctx).Err())
//	})
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry schedule for RetryWithBackoff: 200ms then 400ms between three
// attempts. Tests shorten them.
var (
	retryAttempts = 3
	retryDelay    = 200 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable error,
// or the attempts run out. The delay doubles after each retryable failure.
// A cancelled ctx ends the wait between attempts and returns ctx.Err();
// otherwise the last retryable error is returned.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var lastErr error
	for i := 0; i < retryAttempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		lastErr = err

		if i < retryAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
