// Package config holds the runtime settings of coursehub.
//
// PRECEDENCE (later wins):
//  1. Default()
//  2. environment variables (FromEnv)
//  3. command-line flags (bound by internal/command)
//
// Validate runs once after all three have been applied.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Environment variable names.
const (
	EnvPort            = "PORT"
	EnvDBPath          = "DB_PATH"
	EnvLogLevel        = "LOG_LEVEL"
	EnvBcryptCost      = "BCRYPT_COST"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

type Config struct {
	Port            int
	DBPath          string // SQLite file, or ":memory:"
	LogLevel        string // debug | info | warn | error
	BcryptCost      int
	ShutdownTimeout time.Duration
}

func Default() Config {
	return Config{
		Port:            5000,
		DBPath:          "data/coursehub.db",
		LogLevel:        "info",
		BcryptCost:      12,
		ShutdownTimeout: 10 * time.Second,
	}
}

// FromEnv overlays the variables that are set onto cfg. lookup is
// os.LookupEnv outside of tests.
func FromEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	var errs []error

	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvPort, err))
		}
		cfg.Port = port
	}
	if v, ok := lookup(EnvDBPath); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvBcryptCost); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvBcryptCost, err))
		}
		cfg.BcryptCost = cost
	}
	if v, ok := lookup(EnvShutdownTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvShutdownTimeout, err))
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, errors.Join(errs...)
}

// Load is Default overlaid with the process environment.
func Load() (Config, error) {
	return FromEnv(Default(), os.LookupEnv)
}

// Validate reports every problem with cfg at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 0-65535", c.Port))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range %d-%d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout %s must be positive", c.ShutdownTimeout))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// NewLogger builds the process logger: text output, level from c.
// Call after Validate.
func (c Config) NewLogger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
