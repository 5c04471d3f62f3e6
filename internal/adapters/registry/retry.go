package registry

import (
	"context"
	"errors"
	"time"
)

// retryableError marks a failure worth another attempt (transport errors, 5xx).
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retry executes fn up to attempts times, doubling delay after each retryable failure.
// Non-retryable errors are returned immediately.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return unwrapRetryable(lastErr)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*retryableError))
}

func unwrapRetryable(err error) error {
	var r *retryableError
	if errors.As(err, &r) {
		return r.err
	}
	return err
}
