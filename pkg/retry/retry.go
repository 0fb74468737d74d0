package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMaxElapsed is returned when a bounded wait runs out of time budget.
// It is distinct from the underlying "not yet ready" error, which is
// wrapped alongside it.
var ErrMaxElapsed = errors.New("retry: maximum wait elapsed")

// Config holds retry configuration
type Config struct {
	MaxAttempts    int           // Maximum attempts; <= 0 means unlimited
	InitialBackoff time.Duration // Backoff after the first failed attempt
	MaxBackoff     time.Duration // Backoff ceiling; 0 means no ceiling
	Multiplier     float64       // Backoff multiplier; 1.0 keeps a fixed interval
	MaxElapsed     time.Duration // Total time budget; 0 means unbounded
}

// DefaultConfig matches the historical entrypoint behavior: probe every
// second, forever, with no cap.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    0,
		InitialBackoff: 1 * time.Second,
		Multiplier:     1.0,
	}
}

// Notify is called after each failed attempt, before sleeping.
// attempt starts at 1; next is the upcoming sleep duration.
type Notify func(attempt int, next time.Duration, err error)

// Do executes fn until it succeeds, the attempt or time budget runs out,
// or ctx is cancelled.
func Do(ctx context.Context, config Config, fn func() error, notify Notify) error {
	var lastErr error
	backoff := config.InitialBackoff
	start := time.Now()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if config.MaxAttempts > 0 && attempt >= config.MaxAttempts {
			return fmt.Errorf("max attempts (%d) exceeded: %w", config.MaxAttempts, lastErr)
		}

		if config.MaxElapsed > 0 && time.Since(start)+backoff > config.MaxElapsed {
			return fmt.Errorf("%w after %s: %v", ErrMaxElapsed, config.MaxElapsed, lastErr)
		}

		if notify != nil {
			notify(attempt, backoff, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(backoff):
		}

		if config.Multiplier > 1.0 {
			backoff = time.Duration(float64(backoff) * config.Multiplier)
			if config.MaxBackoff > 0 && backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}
}
