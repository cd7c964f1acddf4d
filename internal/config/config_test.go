package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	for _, name := range []string{
		"FORMBUILDER_ADDR", "LOG_LEVEL", "FORMBUILDER_LOG_FORMAT", "FORMBUILDER_SCHEMA",
		"FORMBUILDER_THEME", "FORMBUILDER_THEME_VARIANT", "FORMBUILDER_WATCH_DEBOUNCE",
	} {
		t.Setenv(name, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Addr:          ":8080",
		LogLevel:      "info",
		LogFormat:     "text",
		WatchDebounce: 100 * time.Millisecond,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("FORMBUILDER_ADDR", "127.0.0.1:9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FORMBUILDER_LOG_FORMAT", "json")
	t.Setenv("FORMBUILDER_SCHEMA", "schema.json")
	t.Setenv("FORMBUILDER_THEME", "formbuilder")
	t.Setenv("FORMBUILDER_THEME_VARIANT", "dark")
	t.Setenv("FORMBUILDER_WATCH_DEBOUNCE", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Addr:          "127.0.0.1:9000",
		LogLevel:      "debug",
		LogFormat:     "json",
		Schema:        "schema.json",
		Theme:         "formbuilder",
		ThemeVariant:  "dark",
		WatchDebounce: 250 * time.Millisecond,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_RejectsUnknownFormat(t *testing.T) {
	t.Setenv("FORMBUILDER_LOG_FORMAT", "xml")
	if _, err := Load(); err == nil {
		t.Fatalf("expected unknown log format to fail")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("form.schema.rejected", "error", "boom")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, `"msg":"form.schema.rejected"`) {
		t.Fatalf("expected json record, got %q", out)
	}

	buf.Reset()
	logger, err = NewLogger(&buf, "", "text")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("watch.reload", "bytes", 3)
	if !strings.Contains(buf.String(), "msg=watch.reload bytes=3") {
		t.Fatalf("expected text record, got %q", buf.String())
	}

	if _, err := NewLogger(&buf, "info", "xml"); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}
