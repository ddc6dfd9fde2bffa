package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Week start values for CalendarConfig.WeekStart.
const (
	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"
)

// StorageConfig controls where tasks and notes are kept.
type StorageConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// PersistTasks saves the task list between runs. Notes are always saved.
	PersistTasks bool `mapstructure:"persist_tasks" yaml:"persist_tasks"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// CalendarConfig holds calendar tab preferences.
type CalendarConfig struct {
	WeekStart string `mapstructure:"week_start" yaml:"week_start"`
}

// PomodoroConfig holds the focus timer length.
type PomodoroConfig struct {
	Minutes int `mapstructure:"minutes" yaml:"minutes"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	Pomodoro PomodoroConfig `mapstructure:"pomodoro" yaml:"pomodoro"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/planner/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "planner", "config.yaml")
}

// DefaultDBPath returns ~/.local/share/planner/planner.db.
func DefaultDBPath() string {
	return filepath.Join(homeDir(), ".local", "share", "planner", "planner.db")
}

// DefaultLogPath returns ~/.local/state/planner/planner.log.
func DefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "state", "planner", "planner.log")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			DBPath:       DefaultDBPath(),
			PersistTasks: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  DefaultLogPath(),
		},
		Calendar: CalendarConfig{WeekStart: WeekStartSunday},
		Pomodoro: PomodoroConfig{Minutes: 25},
	}
}

// setDefaults registers the defaults on v so that env and flag overrides
// resolve against them.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("storage.persist_tasks", d.Storage.PersistTasks)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("calendar.week_start", d.Calendar.WeekStart)
	v.SetDefault("pomodoro.minutes", d.Pomodoro.Minutes)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the defaults with any PLANNER_*
// environment overrides and flags applied. flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (*AppConfig, error) {
	return loadConfig(path, flags, true)
}

// LoadFileConfig reads only the YAML file at path over the defaults,
// ignoring environment overrides. It is the base for writing changes back
// without saving one-off overrides.
func LoadFileConfig(path string) (*AppConfig, error) {
	return loadConfig(path, nil, false)
}

func loadConfig(path string, flags *pflag.FlagSet, env bool) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if env {
		v.SetEnvPrefix("planner")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	setDefaults(v)

	if flags != nil {
		if f := flags.Lookup("db"); f != nil {
			if err := v.BindPFlag("storage.db_path", f); err != nil {
				return nil, fmt.Errorf("binding flag db: %w", err)
			}
		}
		if f := flags.Lookup("log-level"); f != nil {
			if err := v.BindPFlag("log.level", f); err != nil {
				return nil, fmt.Errorf("binding flag log-level: %w", err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values that viper cannot check by type.
func (c *AppConfig) Validate() error {
	switch c.Calendar.WeekStart {
	case WeekStartSunday, WeekStartMonday:
	default:
		return fmt.Errorf("calendar.week_start must be %q or %q, got %q",
			WeekStartSunday, WeekStartMonday, c.Calendar.WeekStart)
	}
	if c.Pomodoro.Minutes <= 0 {
		return fmt.Errorf("pomodoro.minutes must be positive, got %d", c.Pomodoro.Minutes)
	}
	if strings.TrimSpace(c.Storage.DBPath) == "" {
		return fmt.Errorf("storage.db_path must not be empty")
	}
	return nil
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

	v.Set("storage", cfg.Storage)
	v.Set("log", cfg.Log)
	v.Set("calendar", cfg.Calendar)
	v.Set("pomodoro", cfg.Pomodoro)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
