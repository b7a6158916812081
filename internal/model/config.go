package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// NotificationConfig controls due-soon detection and host alerts.
type NotificationConfig struct {
	// IntervalSec is how often (in seconds) due notifications are recomputed.
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`

	// SystemAlerts grants the host alert capability (terminal bell).
	SystemAlerts bool `mapstructure:"system_alerts" yaml:"system_alerts"`

	// AlertMinutes is the minutes-until-due value that triggers a host alert.
	AlertMinutes int `mapstructure:"alert_minutes" yaml:"alert_minutes"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	File   string `mapstructure:"file" yaml:"file"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SectionsConfig holds section defaults.
type SectionsConfig struct {
	DefaultName string `mapstructure:"default_name" yaml:"default_name"`
}

// SeedConfig points at an optional YAML file imported on startup.
type SeedConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Sections      SectionsConfig     `mapstructure:"sections" yaml:"sections"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
	Seed          SeedConfig         `mapstructure:"seed" yaml:"seed"`
}

// ConfigDir returns ~/.config/taskdash, falling back to the working directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "taskdash")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskdash/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Sections: SectionsConfig{DefaultName: "General"},
		Notifications: NotificationConfig{
			IntervalSec:  60,
			SystemAlerts: false,
			AlertMinutes: 15,
		},
		Log: LogConfig{
			Level:  "info",
			File:   filepath.Join(ConfigDir(), "taskdash.log"),
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("sections.default_name", d.Sections.DefaultName)
	v.SetDefault("notifications.interval_sec", d.Notifications.IntervalSec)
	v.SetDefault("notifications.system_alerts", d.Notifications.SystemAlerts)
	v.SetDefault("notifications.alert_minutes", d.Notifications.AlertMinutes)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("seed.file", "")
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"seed":      "seed.file",
	"log-file":  "log.file",
	"log-level": "log.level",
	"alerts":    "notifications.system_alerts",
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Values are layered: defaults, file, TASKDASH_* environment variables,
// then any flags in fs that were set. A missing file is not an error.
func LoadConfig(path string, fs *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("taskdash")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Notifications.IntervalSec <= 0 {
		cfg.Notifications.IntervalSec = 60
	}
	if strings.TrimSpace(cfg.Sections.DefaultName) == "" {
		cfg.Sections.DefaultName = "General"
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("sections", cfg.Sections)
	v.Set("notifications", cfg.Notifications)
	v.Set("log", cfg.Log)
	v.Set("seed", cfg.Seed)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
