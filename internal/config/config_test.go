package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg := LoadFromEnv()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "prscope", cfg.Database.Name)
	assert.Equal(t, "release", cfg.GinMode)

	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("invalid gin mode", func(t *testing.T) {
		cfg := LoadFromEnv()
		cfg.GinMode = "production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("propagates logger error", func(t *testing.T) {
		cfg := LoadFromEnv()
		cfg.Logger.Level = "loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("propagates database error", func(t *testing.T) {
		cfg := LoadFromEnv()
		cfg.Database.Name = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("propagates github error", func(t *testing.T) {
		cfg := LoadFromEnv()
		cfg.GitHub.AppID = 1
		cfg.GitHub.PrivateKeyPath = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabaseConfig_Validate(t *testing.T) {
	valid := LoadDatabaseConfigFromEnv()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*DatabaseConfig)
	}{
		{"empty host", func(c *DatabaseConfig) { c.Host = "" }},
		{"empty port", func(c *DatabaseConfig) { c.Port = "" }},
		{"empty name", func(c *DatabaseConfig) { c.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadDatabaseConfigFromEnv()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", User: "u", Password: "p", Name: "prscope",
		Port: "5432", SSLMode: "disable", TimeZone: "UTC",
	}
	assert.Equal(t,
		"host=db user=u password=p dbname=prscope port=5432 sslmode=disable TimeZone=UTC",
		cfg.DSN(),
	)
}
