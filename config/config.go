// Package config reads gridview settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "FURRY_GRID_"

// ErrNegativePageLimit is returned when PAGE_LIMIT is below zero.
var ErrNegativePageLimit = errors.New("page limit must not be negative")

// Config holds gridview settings.
type Config struct {
	ProjectionDebounce time.Duration `env:"PROJECTION_DEBOUNCE" envDefault:"100ms"`
	SearchDebounce     time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"500ms"`
	// PageLimit of 0 shows every item on one page.
	PageLimit int        `env:"PAGE_LIMIT" envDefault:"10"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	// DBPath selects the SQLite store. Empty keeps items in memory.
	DBPath string `env:"DB_PATH"`
	// DataPath is a YAML dataset. Empty uses the built-in sample.
	DataPath string `env:"DATA_PATH"`
	Style    string `env:"STYLE" envDefault:"monokai"`
}

// ParseEnv loads configuration from FURRY_GRID_* variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PageLimit < 0 {
		return Config{}, fmt.Errorf("parse env: %w", ErrNegativePageLimit)
	}
	return cfg, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
