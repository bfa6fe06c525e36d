// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Environment variables read by FromEnv.
const (
	EnvAddr       = "RATIONS_ADDR"
	EnvSeedFile   = "RATIONS_SEED_FILE"
	EnvSessionTTL = "RATIONS_SESSION_TTL"
	EnvBcryptCost = "RATIONS_BCRYPT_COST"
	EnvLogLevel   = "RATIONS_LOG_LEVEL"
	EnvLogFormat  = "RATIONS_LOG_FORMAT"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config captures everything the server needs at startup.
type Config struct {
	Addr       string        `validate:"required"`
	SeedFile   string        `validate:"omitempty,file"`
	SessionTTL time.Duration `validate:"gte=1s"`
	BcryptCost int           `validate:"gte=4,lte=31"`
	LogLevel   string        `validate:"oneof=debug info warn error"`
	LogFormat  string        `validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:       ":8080",
		SessionTTL: 24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// FromEnv overlays environment variables on Default. It does not validate;
// flags may still override fields before Validate is called.
func FromEnv() (Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv(EnvSeedFile); ok {
		cfg.SeedFile = v
	}
	if v, ok := os.LookupEnv(EnvSessionTTL); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvSessionTTL, err)
		}
		cfg.SessionTTL = d
	}
	if v, ok := os.LookupEnv(EnvBcryptCost); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvBcryptCost, err)
		}
		cfg.BcryptCost = n
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok && v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Logger builds the root logger writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
