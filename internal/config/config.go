// Package config loads panitia settings from TOML, .env and environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all panitia configuration.
type Config struct {
	Sources    SourcesConfig    `toml:"sources"`
	Refresh    RefreshConfig    `toml:"refresh"`
	Server     ServerConfig     `toml:"server"`
	Schema     SchemaConfig     `toml:"schema"`
	Static     StaticConfig     `toml:"static"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// SourcesConfig holds the published sheet endpoints.
type SourcesConfig struct {
	Income  SourceConfig `toml:"income"`
	Donors  SourceConfig `toml:"donors"`
	Pledges SourceConfig `toml:"pledges"`
}

// SourceConfig is one published sheet. An empty URL disables fetching.
type SourceConfig struct {
	URL       string `toml:"url,omitempty"`
	Format    string `toml:"format,omitempty"`
	SearchURL string `toml:"search_url,omitempty"`
}

// RefreshConfig holds fetch timing.
type RefreshConfig struct {
	IntervalSec      int `toml:"interval_sec"`
	TimeoutSec       int `toml:"timeout_sec"`
	SearchDebounceMs int `toml:"search_debounce_ms"`
}

// ServerConfig holds data service settings.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// SchemaConfig controls how strictly sheet rows are checked.
type SchemaConfig struct {
	Strict bool `toml:"strict"`
}

// StaticConfig points at an optional dataset that replaces the bundled one.
type StaticConfig struct {
	OverridePath string `toml:"override_path,omitempty"`
	Watch        bool   `toml:"watch"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme         string `toml:"theme"`
	MarkdownStyle string `toml:"markdown_style"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Refresh: RefreshConfig{
			IntervalSec:      300,
			TimeoutSec:       10,
			SearchDebounceMs: 500,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
		Static: StaticConfig{Watch: true},
		Appearance: AppearanceConfig{
			Theme:         "flexoki-dark",
			MarkdownStyle: "auto",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Interval returns the refresh interval.
func (r RefreshConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSec) * time.Second
}

// Timeout returns the per-request timeout.
func (r RefreshConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSec) * time.Second
}

// Debounce returns the search debounce delay.
func (r RefreshConfig) Debounce() time.Duration {
	return time.Duration(r.SearchDebounceMs) * time.Millisecond
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Refresh.IntervalSec < 10 {
		errs = append(errs, fmt.Errorf("refresh.interval_sec must be at least 10, got %d", c.Refresh.IntervalSec))
	}
	if c.Refresh.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("refresh.timeout_sec must be positive, got %d", c.Refresh.TimeoutSec))
	}
	if c.Refresh.SearchDebounceMs < 0 {
		errs = append(errs, fmt.Errorf("refresh.search_debounce_ms must not be negative"))
	}
	for name, s := range map[string]SourceConfig{
		"income": c.Sources.Income, "donors": c.Sources.Donors, "pledges": c.Sources.Pledges,
	} {
		switch strings.ToLower(s.Format) {
		case "", "csv", "xlsx":
		default:
			errs = append(errs, fmt.Errorf("sources.%s.format must be csv or xlsx, got %q", name, s.Format))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "panitia")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "panitia")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path, returning defaults if it
// doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Environment variables that override file settings.
const (
	EnvIncomeURL       = "PANITIA_INCOME_URL"
	EnvDonorsURL       = "PANITIA_DONORS_URL"
	EnvPledgesURL      = "PANITIA_PLEDGES_URL"
	EnvPledgeSearchURL = "PANITIA_PLEDGES_SEARCH_URL"
	EnvServerAddr      = "PANITIA_ADDR"
	EnvStrict          = "PANITIA_STRICT"
	EnvLogLevel        = "PANITIA_LOG_LEVEL"
)

// ApplyEnv returns cfg with environment overrides applied. Environment
// values win over the config file.
func ApplyEnv(cfg Config) Config {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.Sources.Income.URL, EnvIncomeURL)
	set(&cfg.Sources.Donors.URL, EnvDonorsURL)
	set(&cfg.Sources.Pledges.URL, EnvPledgesURL)
	set(&cfg.Sources.Pledges.SearchURL, EnvPledgeSearchURL)
	set(&cfg.Server.Addr, EnvServerAddr)
	set(&cfg.Log.Level, EnvLogLevel)

	if v := os.Getenv(EnvStrict); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schema.Strict = b
		}
	}
	return cfg
}
