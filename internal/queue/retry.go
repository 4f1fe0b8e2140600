package queue

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds the enqueue retry loop: a fixed attempt count with
// the delay doubling from BaseDelay between attempts.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy matches the delivery contract: 3 attempts with
// exponential backoff starting at 2 seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseDelay: 2 * time.Second,
	}
}

// withRetry runs op up to policy.Attempts times, sleeping between
// attempts with the delay doubling each round. It returns the last
// error when every attempt fails, or the context error if the caller
// gives up while waiting.
func withRetry(ctx context.Context, policy RetryPolicy, log *slog.Logger, op func(context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	delay := policy.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		log.Warn("queue operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", lastErr.Error()))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}
