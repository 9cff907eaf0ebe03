// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment configuration shared by the CLI commands.
// Command-line flags default from it and take precedence.
type Config struct {
	DB           string        `env:"LIFESIM_DB" envDefault:"lifesim.db"`
	LogLevel     string        `env:"LIFESIM_LOG_LEVEL" envDefault:"info"`
	Addr         string        `env:"LIFESIM_ADDR" envDefault:"127.0.0.1:8080"`
	MaxActions   int           `env:"LIFESIM_MAX_ACTIONS" envDefault:"3"`
	RewardWindow time.Duration `env:"LIFESIM_REWARD_WINDOW" envDefault:"2s"`
	// Seed 0 draws a random seed per life.
	Seed uint64 `env:"LIFESIM_SEED" envDefault:"0"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the environment configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.MaxActions < 1 {
		return fmt.Errorf("LIFESIM_MAX_ACTIONS must be at least 1, got %d", c.MaxActions)
	}
	if c.RewardWindow < 0 {
		return fmt.Errorf("LIFESIM_REWARD_WINDOW must not be negative, got %s", c.RewardWindow)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level is the parsed LogLevel. Invalid levels were rejected by Validate.
func (c Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// ParseLevel maps debug, info, warn, and error (any case) to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LIFESIM_LOG_LEVEL: unknown level %q", s)
	}
	return lvl, nil
}
