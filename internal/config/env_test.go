package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Run("returns value when set", func(t *testing.T) {
		t.Setenv("TEST_ENV_KEY", "value")
		assert.Equal(t, "value", GetEnv("TEST_ENV_KEY", "default"))
	})

	t.Run("returns default when unset", func(t *testing.T) {
		assert.Equal(t, "default", GetEnv("TEST_ENV_MISSING", "default"))
	})

	t.Run("returns default when empty", func(t *testing.T) {
		t.Setenv("TEST_ENV_EMPTY", "")
		assert.Equal(t, "default", GetEnv("TEST_ENV_EMPTY", "default"))
	})
}

func TestGetEnvDuration(t *testing.T) {
	t.Run("parses duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "30s")
		assert.Equal(t, 30*time.Second, GetEnvDuration("TEST_DURATION", time.Minute))
	})

	t.Run("returns default on invalid value", func(t *testing.T) {
		t.Setenv("TEST_DURATION_BAD", "not-a-duration")
		assert.Equal(t, time.Minute, GetEnvDuration("TEST_DURATION_BAD", time.Minute))
	})

	t.Run("returns default when unset", func(t *testing.T) {
		assert.Equal(t, time.Minute, GetEnvDuration("TEST_DURATION_MISSING", time.Minute))
	})
}

func TestGetEnvInt64(t *testing.T) {
	t.Run("parses int64", func(t *testing.T) {
		t.Setenv("TEST_INT", "12345")
		assert.Equal(t, int64(12345), GetEnvInt64("TEST_INT", 0))
	})

	t.Run("returns default on invalid value", func(t *testing.T) {
		t.Setenv("TEST_INT_BAD", "abc")
		assert.Equal(t, int64(7), GetEnvInt64("TEST_INT_BAD", 7))
	})
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_SMALL", "42")
	assert.Equal(t, 42, GetEnvInt("TEST_INT_SMALL", 0))
	assert.Equal(t, 9, GetEnvInt("TEST_INT_SMALL_MISSING", 9))
}
