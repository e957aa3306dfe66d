// Package server implements the BeliefDB HTTP server: a JSON API over the
// engine's mutation and query interface, with recovery/logging middleware,
// Prometheus metrics and an async task endpoint for long sampling runs.
//
// This file defines the YAML server configuration.
package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration file.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// DefaultIterations is used when a sample request does not set an
	// iteration count.
	DefaultIterations int `yaml:"default_iterations"`

	// MaxIterations caps per-request iteration counts, as a guard against a
	// request that would hold the engine's read lock for minutes. 0 = no cap.
	MaxIterations int `yaml:"max_iterations"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		DefaultIterations: 1000,
		MaxIterations:     1_000_000,
	}
}

// LoadConfig reads a YAML config file, filling unset fields from the
// defaults. An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.DefaultIterations <= 0 {
		cfg.DefaultIterations = DefaultConfig().DefaultIterations
	}
	if cfg.MaxIterations < 0 {
		return Config{}, fmt.Errorf("max_iterations must not be negative")
	}
	return cfg, nil
}
