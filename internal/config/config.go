// Package config loads the optional settings file. Every field has a default,
// so a missing file is the same as an empty one.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/dailyquest/internal/calendar"
	"github.com/julianstephens/dailyquest/internal/constants"
)

const defaultConfigYAML = `# dailyquest configuration

# Hour of the morning at which a new day starts. Progress made before this
# hour still counts toward the previous day.
cutoff_hours: 3

# How often the TUI and 'dailyquest watch' check for a new day.
check_interval: 60s

# IANA time zone used for day boundaries, or Local for the system zone.
timezone: Local

# Forward the all-quests-complete celebration to the tray app, if running.
tray_notifications: false
`

const defaultCheckInterval = "60s"

type Config struct {
	CutoffHours       int    `yaml:"cutoff_hours"`
	CheckInterval     string `yaml:"check_interval"`
	Timezone          string `yaml:"timezone"`
	TrayNotifications bool   `yaml:"tray_notifications"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CutoffHours:   int(constants.DefaultCutoff / time.Hour),
		CheckInterval: defaultCheckInterval,
		Timezone:      constants.DefaultTimezone,
	}
}

// Load reads path. A missing file yields Default; unset fields keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// EnsureDefault writes the commented default file unless one exists.
// With force an existing file is replaced.
func EnsureDefault(path string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("config: ensure config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return false, fmt.Errorf("config: write %s: %w", path, err)
	}
	return true, nil
}

// Save writes cfg to path, replacing comments.
func Save(path string, cfg Config) error {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: ensure config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyDefaults() {
	if c.CheckInterval == "" {
		c.CheckInterval = defaultCheckInterval
	}
	if c.Timezone == "" {
		c.Timezone = constants.DefaultTimezone
	}
}

func (c Config) Validate() error {
	if c.CutoffHours < 0 || c.CutoffHours > 23 {
		return fmt.Errorf("cutoff_hours must be between 0 and 23, got %d", c.CutoffHours)
	}
	d, err := time.ParseDuration(c.CheckInterval)
	if err != nil {
		return fmt.Errorf("check_interval: %w", err)
	}
	if d < time.Second {
		return fmt.Errorf("check_interval must be at least 1s, got %s", d)
	}
	if _, err := calendar.LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

// Cutoff is the day boundary offset.
func (c Config) Cutoff() time.Duration {
	return time.Duration(c.CutoffHours) * time.Hour
}

// Interval is the day check period, falling back to the default when invalid.
func (c Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.CheckInterval)
	if err != nil || d <= 0 {
		return constants.DefaultCheckInterval
	}
	return d
}

// Calendar builds the logical calendar these settings describe.
func (c Config) Calendar(clock calendar.Clock) (*calendar.Calendar, error) {
	loc, err := calendar.LoadLocation(c.Timezone)
	if err != nil {
		return nil, err
	}
	return calendar.New(clock, calendar.WithCutoff(c.Cutoff()), calendar.WithLocation(loc)), nil
}
