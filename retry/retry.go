package retry

import (
	"context"
	"time"

	ai "github.com/spetersoncode/parley"
)

// Notify is called before each retry with the 1-indexed attempt that failed,
// its error, and the delay before the next attempt.
type Notify func(attempt int, err error, delay time.Duration)

// effectiveDelay honors a server Retry-After when it exceeds the configured delay.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	if server := ai.RetryAfterOf(err); server > configured {
		return server
	}
	return configured
}

// Do runs fn until it succeeds, returns a non-transient error, or the
// attempts are exhausted. It returns the last error in the latter cases and
// ctx.Err() if the context ends while waiting.
func Do[T any](ctx context.Context, cfg Config, fn func(ctx context.Context) (T, error)) (T, error) {
	return DoNotify(ctx, cfg, nil, fn)
}

// DoNotify is like Do and reports each retry to notify, which may be nil.
func DoNotify[T any](ctx context.Context, cfg Config, notify Notify, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := max(cfg.MaxAttempts, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) || attempt == attempts-1 {
			break
		}

		delay := effectiveDelay(cfg.Delay(attempt), err)
		if notify != nil {
			notify(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
