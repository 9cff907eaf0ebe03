package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"LIFESIM_DB", "LIFESIM_LOG_LEVEL", "LIFESIM_ADDR", "LIFESIM_MAX_ACTIONS", "LIFESIM_REWARD_WINDOW", "LIFESIM_SEED"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		DB:           "lifesim.db",
		LogLevel:     "info",
		Addr:         "127.0.0.1:8080",
		MaxActions:   3,
		RewardWindow: 2 * time.Second,
		Seed:         0,
	}, cfg)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LIFESIM_DB", "/tmp/lives.db")
	t.Setenv("LIFESIM_LOG_LEVEL", "DEBUG")
	t.Setenv("LIFESIM_ADDR", ":9000")
	t.Setenv("LIFESIM_MAX_ACTIONS", "5")
	t.Setenv("LIFESIM_REWARD_WINDOW", "500ms")
	t.Setenv("LIFESIM_SEED", "18446744073709551615")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/lives.db", cfg.DB)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 5, cfg.MaxActions)
	assert.Equal(t, 500*time.Millisecond, cfg.RewardWindow)
	assert.Equal(t, uint64(18446744073709551615), cfg.Seed)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"not a number", "LIFESIM_MAX_ACTIONS", "three", "parse env"},
		{"zero actions", "LIFESIM_MAX_ACTIONS", "0", "at least 1"},
		{"bad duration", "LIFESIM_REWARD_WINDOW", "soon", "parse env"},
		{"negative window", "LIFESIM_REWARD_WINDOW", "-1s", "must not be negative"},
		{"bad level", "LIFESIM_LOG_LEVEL", "loud", "unknown level"},
		{"negative seed", "LIFESIM_SEED", "-1", "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"Warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
