package cache

import (
	"context"
	"errors"
	"time"

	errs "github.com/matzehuels/brickfall/pkg/errors"
)

// retryAttempts bounds RetryWithBackoff.
const retryAttempts = 3

// retryDelay is the first backoff interval; it doubles after each attempt.
var retryDelay = time.Second

// RetryableError marks a transient backend failure.
type RetryableError struct{ Err error }

// Retryable wraps err so that RetryWithBackoff tries again. nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable error,
// or has been tried retryAttempts times. The final error is returned with the
// RetryableError marker removed.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := range retryAttempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == retryAttempts-1 {
			break
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return errors.Unwrap(err)
}

// networkError wraps a failed backend call as a retryable NETWORK_ERROR.
func networkError(err error, op string) error {
	return Retryable(errs.Wrap(errs.ErrCodeNetwork, err, "redis %s", op))
}
