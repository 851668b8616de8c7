package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// backoffUnit is the base delay; attempt n waits n*n units
var backoffUnit = time.Second

// ErrPermanent marks an error that must not be retried
var ErrPermanent = errors.New("permanent failure")

// Permanent wraps err so RetryWithBackoff returns it immediately
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// RetryWithBackoff retries fn up to maxRetries times with quadratic backoff.
// Errors wrapped with Permanent stop the loop and are returned unwrapped of the retry context.
func RetryWithBackoff(ctx context.Context, maxRetries int, fn func() error, logger *Logger) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * backoffUnit
			logger.Warn("Retrying (attempt %d/%d) after %v...", attempt+1, maxRetries, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			return err
		}
		lastErr = err
		logger.Debug("Attempt %d failed: %v", attempt+1, err)
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", maxRetries, lastErr)
}
