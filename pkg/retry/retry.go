package retry

import (
	"context"
	"fmt"
	"time"
)

// Config controls the backoff schedule.
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns the schedule used for startup dependency dials.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

func (c Config) nextDelay(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * c.BackoffFactor)
	if next > c.MaxDelay {
		return c.MaxDelay
	}
	return next
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context
// (bounded by MaxTotalTimeout) expires.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	return run(ctx, cfg, fn, nil)
}

// DoWithLog is Do with an observer invoked before each backoff sleep, so
// callers can log the failed attempt and the upcoming delay.
func DoWithLog(ctx context.Context, cfg Config, name string, fn func() error, onRetry func(attempt int, err error, nextDelay time.Duration)) error {
	if err := run(ctx, cfg, fn, onRetry); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func run(ctx context.Context, cfg Config, fn func() error, onRetry func(int, error, time.Duration)) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt-1, err, lastErr)
			}
			return fmt.Errorf("retry aborted: %w", err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
		}

		if onRetry != nil {
			onRetry(attempt, lastErr, delay)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt, ctx.Err(), lastErr)
		case <-time.After(delay):
		}
		delay = cfg.nextDelay(delay)
	}
}
