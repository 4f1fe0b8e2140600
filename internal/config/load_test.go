package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimum viable environment for a successful Load
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TASKBOARD_DATABASE_URL", "postgres://localhost:5432/taskboard_test")
	t.Setenv("TASKBOARD_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.False(t, cfg.Queue.Enabled)
	assert.Equal(t, 2, cfg.Queue.Workers)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TASKBOARD_SERVER_PORT", "9090")
	t.Setenv("TASKBOARD_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TASKBOARD_QUEUE_ENABLED", "true")
	t.Setenv("TASKBOARD_QUEUE_REDIS_ADDR", "localhost:6379")
	t.Setenv("TASKBOARD_QUEUE_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.True(t, cfg.Queue.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Queue.RedisAddr)
	assert.Equal(t, 4, cfg.Queue.Workers)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "missing database url",
			setup: func(t *testing.T) {
				t.Setenv("TASKBOARD_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
			},
		},
		{
			name: "short jwt secret",
			setup: func(t *testing.T) {
				t.Setenv("TASKBOARD_DATABASE_URL", "postgres://localhost:5432/taskboard_test")
				t.Setenv("TASKBOARD_AUTH_JWT_SECRET", "too-short")
			},
		},
		{
			name: "invalid log level",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("TASKBOARD_SERVER_LOG_LEVEL", "verbose")
			},
		},
		{
			name: "queue enabled without redis addr",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("TASKBOARD_QUEUE_ENABLED", "true")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup(t)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
