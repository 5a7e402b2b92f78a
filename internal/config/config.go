// Package config resolves worklog settings from defaults, an optional YAML
// file and WORKLOG_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/worklog/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
	LogCalls bool   `yaml:"log_calls"`

	DateLayout string `yaml:"date_layout"`
	TimeLayout string `yaml:"time_layout"`

	LogUnit     string `yaml:"log_unit"`
	HoldingUnit string `yaml:"holding_unit"`

	SortHoldingByElapsed bool `yaml:"sort_holding_by_elapsed"`
	StrictCatalog        bool `yaml:"strict_catalog"`

	// Source is the config file that was read, empty when none was.
	Source string `yaml:"-"`
}

// Default returns the built-in settings rooted at home.
func Default(home string) Config {
	return Config{
		DBPath:      filepath.Join(home, ".worklog", "worklog.db"),
		LogLevel:    "warn",
		DateLayout:  domain.DefaultLayouts.Date,
		TimeLayout:  domain.DefaultLayouts.Time,
		LogUnit:     string(domain.UnitMinutes),
		HoldingUnit: string(domain.UnitMinutes),
	}
}

// Load builds the effective configuration. An explicit path must exist;
// the default location is optional.
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg := Default(home)

	explicit := domain.CoalesceStr(path, os.Getenv("WORKLOG_CONFIG"))
	file := domain.CoalesceStr(explicit, filepath.Join(home, ".worklog", "config.yaml"))
	if err := cfg.readFile(file, explicit != ""); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.DBPath = expandHome(cfg.DBPath, home)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv() {
	c.DBPath = envStr("WORKLOG_DB", c.DBPath)
	c.LogLevel = envStr("WORKLOG_LOG_LEVEL", c.LogLevel)
	c.LogCalls = envBool("WORKLOG_LOG_CALLS", c.LogCalls)
	c.DateLayout = envStr("WORKLOG_DATE_LAYOUT", c.DateLayout)
	c.TimeLayout = envStr("WORKLOG_TIME_LAYOUT", c.TimeLayout)
	c.LogUnit = envStr("WORKLOG_LOG_UNIT", c.LogUnit)
	c.HoldingUnit = envStr("WORKLOG_HOLDING_UNIT", c.HoldingUnit)
	c.SortHoldingByElapsed = envBool("WORKLOG_SORT_HOLDING", c.SortHoldingByElapsed)
	c.StrictCatalog = envBool("WORKLOG_STRICT_CATALOG", c.StrictCatalog)
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if strings.TrimSpace(c.DateLayout) == "" || strings.TrimSpace(c.TimeLayout) == "" {
		return fmt.Errorf("date_layout and time_layout must not be empty")
	}
	if _, err := domain.ParseTimeUnit(c.LogUnit); err != nil {
		return fmt.Errorf("log_unit: %w", err)
	}
	if _, err := domain.ParseTimeUnit(c.HoldingUnit); err != nil {
		return fmt.Errorf("holding_unit: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
}

// Layouts returns the log snapshot formats.
func (c *Config) Layouts() domain.Layouts {
	return domain.Layouts{Date: c.DateLayout, Time: c.TimeLayout}
}

// Units returns the parsed display units for the log and holding views.
func (c *Config) Units() (logUnit, holdingUnit domain.TimeUnit) {
	logUnit, _ = domain.ParseTimeUnit(c.LogUnit)
	holdingUnit, _ = domain.ParseTimeUnit(c.HoldingUnit)
	return logUnit, holdingUnit
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
