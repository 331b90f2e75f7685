package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := Do(ctx, fastConfig(), func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := Do(ctx, fastConfig(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := Do(ctx, fastConfig(), func() error {
			calls++
			return errors.New("persistent")
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		cfg := fastConfig()
		cfg.RetryableErrors = []string{"connection refused"}

		calls := 0
		err := Do(ctx, cfg, func() error {
			calls++
			return errors.New("syntax error")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retryable pattern matches case-insensitively", func(t *testing.T) {
		cfg := fastConfig()
		cfg.RetryableErrors = []string{"Connection Refused"}

		calls := 0
		_ = Do(ctx, cfg, func() error {
			calls++
			return errors.New("dial tcp: connection refused")
		})
		assert.Equal(t, 3, calls)
	})

	t.Run("invalid config", func(t *testing.T) {
		err := Do(ctx, Config{MaxAttempts: 0}, func() error { return nil })
		assert.Error(t, err)
	})
}

func TestDoWithResult(t *testing.T) {
	ctx := context.Background()

	value, err := DoWithResult(ctx, fastConfig(), func() (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(), func() error { return errors.New("never") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostgresConfig(t *testing.T) {
	cfg := PostgresConfig()
	assert.NotEmpty(t, cfg.RetryableErrors)
	assert.True(t, isRetryable(errors.New("dial tcp 127.0.0.1:5432: connection refused"), cfg))
	assert.False(t, isRetryable(errors.New("password authentication failed"), cfg))
}
