// Package config loads environment-driven settings, honoring an optional
// .env file in the working directory.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"callsheet/internal/model"
)

// Config holds all settings. Variables carry the CALLSHEET_ prefix, e.g.
// CALLSHEET_DB_PATH.
type Config struct {
	DBPath   string `envconfig:"DB_PATH" default:"./callsheet.db"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// WriteWaitSeconds bounds how long a mutating call waits for the
	// single writer before failing with a store-unavailable error.
	WriteWaitSeconds int `envconfig:"WRITE_WAIT_SECONDS" default:"30"`
}

// Load reads the optional .env file, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("callsheet", &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return Config{}, fmt.Errorf("%w: bad http port %d", model.ErrInvalidRequest, cfg.HTTPPort)
	}
	if cfg.WriteWaitSeconds <= 0 {
		cfg.WriteWaitSeconds = 30
	}
	return cfg, nil
}

// WriteWait returns the writer-gate bound as a duration.
func (c Config) WriteWait() time.Duration {
	return time.Duration(c.WriteWaitSeconds) * time.Second
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
