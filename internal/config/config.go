// Package config loads process configuration for the formbuilder binaries.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds process settings. Defaults are provided via struct tags;
// command-line flags override them.
type Config struct {
	// Addr is the HTTP listen address. ENV: FORMBUILDER_ADDR
	Addr string `env:"FORMBUILDER_ADDR,default=:8080"`
	// LogLevel is one of debug, info, warn or error. ENV: LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL,default=info"`
	// LogFormat is text or json. ENV: FORMBUILDER_LOG_FORMAT
	LogFormat string `env:"FORMBUILDER_LOG_FORMAT,default=text"`
	// Schema is a schema file path or URL. ENV: FORMBUILDER_SCHEMA
	Schema string `env:"FORMBUILDER_SCHEMA"`
	// Theme names the HTML theme. ENV: FORMBUILDER_THEME
	Theme string `env:"FORMBUILDER_THEME"`
	// ThemeVariant selects a variant of Theme. ENV: FORMBUILDER_THEME_VARIANT
	ThemeVariant string `env:"FORMBUILDER_THEME_VARIANT"`
	// WatchDebounce is the schema watcher quiet period. ENV: FORMBUILDER_WATCH_DEBOUNCE
	WatchDebounce time.Duration `env:"FORMBUILDER_WATCH_DEBOUNCE,default=100ms"`
}

// Load decodes Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decode environment: %w", err)
	}
	if _, err := ParseFormat(cfg.LogFormat); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// ParseFormat validates a log format name. Empty means text.
func ParseFormat(value string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(LogFormatText):
		return LogFormatText, nil
	case string(LogFormatJSON):
		return LogFormatJSON, nil
	default:
		return "", fmt.Errorf("config: unknown log format %q", value)
	}
}

// ParseLevel maps a level name to a slog level. Unknown names yield info.
func ParseLevel(value string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger writing to w.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	logFormat, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch logFormat {
	case LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}
