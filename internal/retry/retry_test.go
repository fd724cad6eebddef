package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr struct{ code int }

func (e statusErr) Error() string      { return http.StatusText(e.code) }
func (e statusErr) GetStatusCode() int { return e.code }

type flaggedErr struct{ retry bool }

func (e flaggedErr) Error() string   { return "flagged" }
func (e flaggedErr) Retryable() bool { return e.retry }

func fastConfig(attempts int) Config {
	cfg := DefaultConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 2 * time.Millisecond
	return cfg
}

func TestWithRetry_SucceedsAfterRetryableStatus(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func(context.Context) error {
		calls++
		if calls < 3 {
			return statusErr{http.StatusServiceUnavailable}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnNonRetryableStatus(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(5), func(context.Context) error {
		calls++
		return statusErr{http.StatusNotFound}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusNotFound, err.(statusErr).code)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	sentinel := statusErr{http.StatusTooManyRequests}
	err := WithRetry(context.Background(), fastConfig(2), func(context.Context) error {
		calls++
		return sentinel
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, sentinel)
}

func TestWithRetry_RespectsRetryableFlag(t *testing.T) {
	calls := 0
	_ = WithRetry(context.Background(), fastConfig(4), func(context.Context) error {
		calls++
		return flaggedErr{retry: false}
	})
	assert.Equal(t, 1, calls)

	calls = 0
	_ = WithRetry(context.Background(), fastConfig(4), func(context.Context) error {
		calls++
		return flaggedErr{retry: true}
	})
	assert.Equal(t, 4, calls)
}

func TestWithRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, fastConfig(5), func(context.Context) error {
		calls++
		cancel()
		return context.Canceled
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_PlainErrorNotRetried(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func(context.Context) error {
		calls++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestCalculateBackoff(t *testing.T) {
	cfg := Config{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, calculateBackoff(0, cfg))
	assert.Equal(t, 400*time.Millisecond, calculateBackoff(2, cfg))
	assert.Equal(t, time.Second, calculateBackoff(10, cfg))
}
