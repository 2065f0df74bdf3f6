package utils

import (
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	// Delay is the fixed pause between attempts. Zero retries immediately.
	Delay  time.Duration
	Logger *Logger
	// OnRetry, when set, runs after the inter-attempt delay and before the
	// next attempt (e.g. to re-authenticate a client).
	OnRetry func(attempt int)
}

// Do executes fn up to MaxAttempts times, pausing Delay between attempts.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < r.MaxAttempts {
			if r.Delay > 0 {
				r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
					operationName, attempt, r.MaxAttempts, lastErr, r.Delay)
				time.Sleep(r.Delay)
			} else {
				r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying",
					operationName, attempt, r.MaxAttempts, lastErr)
			}
			if r.OnRetry != nil {
				r.OnRetry(attempt)
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, r.MaxAttempts, lastErr)
}
