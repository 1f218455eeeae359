package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/parley"
)

func fastConfig(attempts int) Config {
	return Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
}

func TestDoSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(3), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(3), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", ai.NewTransientError("busy", 503, nil)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanent(t *testing.T) {
	calls := 0
	permanent := ai.NewPermanentError("bad key", 401, nil)
	_, err := Do(context.Background(), fastConfig(5), func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})

	assert.Same(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(2), func(context.Context) (int, error) {
		calls++
		return 0, context.DeadlineExceeded
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)
}

func TestDoZeroAttemptsStillCallsOnce(t *testing.T) {
	calls := 0
	_, _ = Do(context.Background(), Config{}, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("x")
	})
	assert.Equal(t, 1, calls)
}

func TestDoNotify(t *testing.T) {
	var attempts []int
	notify := func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
		assert.Error(t, err)
	}

	_, err := DoNotify(context.Background(), fastConfig(3), notify, func(context.Context) (int, error) {
		return 0, ai.NewTransientError("busy", 503, nil)
	})

	assert.Error(t, err)
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDoRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 3, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}

	calls := 0
	_, err := Do(ctx, cfg, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, ai.NewTransientError("busy", 503, nil)
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestEffectiveDelayHonorsRetryAfter(t *testing.T) {
	err := ai.NewTransientErrorWithRetry("slow down", 429, 2*time.Second, nil)
	assert.Equal(t, 2*time.Second, effectiveDelay(time.Second, err))
	assert.Equal(t, 3*time.Second, effectiveDelay(3*time.Second, err))
}
