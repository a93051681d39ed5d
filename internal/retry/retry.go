// Package retry provides bounded fixed-delay retry for transient errors.
//
// Usage:
//
//	err := retry.Do(ctx, retry.Config{MaxAttempts: 3, Delay: 2 * time.Second}, func() error {
//	    return client.Call()
//	})
package retry

import (
	"context"
	"errors"
	"time"
)

// Config controls the retry behaviour.
type Config struct {
	// MaxAttempts is the total number of attempts (including the first).
	// Zero or negative values are treated as 1 (no retries).
	MaxAttempts int
	// Delay is the fixed wait between attempts.
	Delay time.Duration
	// ShouldRetry is an optional predicate that lets callers classify errors
	// as retryable. When nil, all non-nil errors are retried.
	ShouldRetry func(err error) bool
}

// DefaultConfig matches the transport retry policy: three attempts with a
// fixed two-second pause between them.
var DefaultConfig = Config{
	MaxAttempts: 3,
	Delay:       2 * time.Second,
}

// Do calls fn up to cfg.MaxAttempts times, waiting cfg.Delay between
// attempts. It stops early when ctx is cancelled or fn returns nil.
// The error from the last attempt is returned.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultConfig.Delay
	}
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = func(err error) bool { return true }
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Join(lastErr, err)
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !shouldRetry(lastErr) {
			return lastErr
		}
		if attempt < cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return errors.Join(lastErr, ctx.Err())
			case <-time.After(cfg.Delay):
			}
		}
	}
	return lastErr
}
