// Package config loads elephant's settings from defaults, an optional .env
// file, an optional YAML file, ELEPHANT_* environment variables and command
// line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/elephant/internal/schedule"
)

const envPrefix = "ELEPHANT_"

// Config is the merged configuration.
type Config struct {
	DB       string         `koanf:"db" validate:"required"`
	LogLevel string         `koanf:"log_level" validate:"oneof=debug info warn error"`
	Schedule ScheduleConfig `koanf:"schedule"`
	List     LimitConfig    `koanf:"list"`
	Search   LimitConfig    `koanf:"search"`
	Render   RenderConfig   `koanf:"render"`
}

// ScheduleConfig tunes how review outcomes change a card's level.
type ScheduleConfig struct {
	MehDivisor float64 `koanf:"meh_divisor" validate:"gt=1"`
}

// LimitConfig caps how many cards a listing command prints.
type LimitConfig struct {
	Limit int `koanf:"limit" validate:"gte=0"`
}

// RenderConfig controls how quiz cards are drawn. Box is auto, always or never.
type RenderConfig struct {
	Box string `koanf:"box" validate:"oneof=auto always never"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"db":                   DefaultDBPath(),
		"log_level":            "warn",
		"schedule.meh_divisor": schedule.DefaultMehDivisor,
		"list.limit":           10,
		"search.limit":         15,
		"render.box":           "auto",
	}
}

// DefaultDBPath returns $XDG_DATA_HOME/elephant/elephant.db, falling back to
// ~/.local/share and finally to the working directory.
func DefaultDBPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "elephant", "elephant.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "elephant", "elephant.db")
	}
	return "elephant.db"
}

// DefaultConfigPath returns the YAML file read when --config is not given.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "elephant", "config.yaml")
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit YAML file; it must exist when set.
	ConfigFile string
	// DotEnv is the .env file to load; missing files are ignored.
	DotEnv string
	// Flags are applied last. Only flags the user changed take effect.
	Flags *pflag.FlagSet
}

// Load merges every configuration source and validates the result.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	for key, val := range Defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if opts.DotEnv != "" {
		if err := godotenv.Load(opts.DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", opts.DotEnv, err)
		}
	}

	path, required := opts.ConfigFile, true
	if path == "" {
		path, required = DefaultConfigPath(), false
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || required {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
			slog.Debug("config file loaded", "path", path)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if opts.Flags != nil {
		flags := opts.Flags
		cb := func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, cb), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel returns the slog level for the configured name.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

// envKey maps ELEPHANT_SCHEDULE__MEH_DIVISOR to schedule.meh_divisor.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// flagKeys maps command line flags onto config keys. Flags missing here
// (such as --config itself) are not config values.
var flagKeys = map[string]string{
	"db":          "db",
	"log-level":   "log_level",
	"meh-divisor": "schedule.meh_divisor",
	"box":         "render.box",
}
