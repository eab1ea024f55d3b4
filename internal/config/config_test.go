package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// isolate points every default location at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("db", "", "")
	fs.String("log-level", "warn", "")
	fs.Float64("meh-divisor", 1.99, "")
	fs.String("box", "auto", "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if want := filepath.Join(dir, "data", "elephant", "elephant.db"); cfg.DB != want {
		t.Errorf("DB: got %q, want %q", cfg.DB, want)
	}
	if cfg.Schedule.MehDivisor != 1.99 {
		t.Errorf("MehDivisor: got %v, want 1.99", cfg.Schedule.MehDivisor)
	}
	if cfg.List.Limit != 10 || cfg.Search.Limit != 15 {
		t.Errorf("limits: got %d/%d, want 10/15", cfg.List.Limit, cfg.Search.Limit)
	}
	if cfg.Render.Box != "auto" || cfg.LogLevel != "warn" {
		t.Errorf("got box=%q log_level=%q", cfg.Render.Box, cfg.LogLevel)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, "config", "elephant", "config.yaml"), `
db: /from/file.db
log_level: info
schedule:
  meh_divisor: 1.5
list:
  limit: 3
`)
	t.Setenv("ELEPHANT_LIST__LIMIT", "7")
	t.Setenv("ELEPHANT_LOG_LEVEL", "error")

	fs := testFlags()
	if err := fs.Parse([]string{"--db", "/from/flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(Options{Flags: fs})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DB != "/from/flag.db" {
		t.Errorf("DB: got %q, want the flag value", cfg.DB)
	}
	if cfg.Schedule.MehDivisor != 1.5 {
		t.Errorf("MehDivisor: got %v, want 1.5 from the file", cfg.Schedule.MehDivisor)
	}
	if cfg.List.Limit != 7 {
		t.Errorf("List.Limit: got %d, want 7 from the environment", cfg.List.Limit)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel: got %q, want error from the environment", cfg.LogLevel)
	}
	if cfg.Render.Box != "auto" {
		t.Errorf("Render.Box: got %q, want the default to survive unchanged flags", cfg.Render.Box)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	dotenv := filepath.Join(dir, ".env")
	writeFile(t, dotenv, "ELEPHANT_SEARCH__LIMIT=4\n")
	t.Setenv("ELEPHANT_SEARCH__LIMIT", "")
	os.Unsetenv("ELEPHANT_SEARCH__LIMIT")

	cfg, err := Load(Options{DotEnv: dotenv})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Search.Limit != 4 {
		t.Errorf("Search.Limit: got %d, want 4 from .env", cfg.Search.Limit)
	}

	if _, err := Load(Options{DotEnv: filepath.Join(dir, "missing.env")}); err != nil {
		t.Errorf("Expected a missing .env to be ignored, got %v", err)
	}
}

func TestLoadExplicitConfigMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := Load(Options{ConfigFile: filepath.Join(dir, "nope.yaml")})
	if err == nil {
		t.Fatal("Expected an error for a missing explicit config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"divisor too small", "schedule:\n  meh_divisor: 1\n"},
		{"negative limit", "search:\n  limit: -1\n"},
		{"unknown box mode", "render:\n  box: sometimes\n"},
		{"unknown log level", "log_level: loud\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "bad.yaml")
			writeFile(t, path, tc.yaml)

			_, err := Load(Options{ConfigFile: path})
			if err == nil || !strings.Contains(err.Error(), "invalid config") {
				t.Errorf("Expected a validation error, got %v", err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("got %v, want debug", cfg.SlogLevel())
	}
	cfg.LogLevel = "bogus"
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Errorf("got %v, want warn fallback", cfg.SlogLevel())
	}
}

func TestEnvKey(t *testing.T) {
	if got := envKey("ELEPHANT_SCHEDULE__MEH_DIVISOR"); got != "schedule.meh_divisor" {
		t.Errorf("got %q, want schedule.meh_divisor", got)
	}
	if got := envKey("ELEPHANT_DB"); got != "db" {
		t.Errorf("got %q, want db", got)
	}
}
