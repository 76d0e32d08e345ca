package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/studytime/pkg/studytime/logging"
	"github.com/jamesainslie/studytime/pkg/studytime/types"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int `mapstructure:"max_size_mb"`
	MaxAge     int `mapstructure:"max_age"`
	MaxBackups int `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// Logging converts the section into a logging.Config.
// consoleLevel enables stderr output; empty keeps logs in the file only.
func (c LoggingConfig) Logging(consoleLevel string) logging.Config {
	return logging.Config{
		Level: c.Level,
		Path:  c.Path,
		Rotation: logging.RotationConfig{
			MaxSizeMB:  c.Rotation.MaxSizeMB,
			MaxAge:     c.Rotation.MaxAge,
			MaxBackups: c.Rotation.MaxBackups,
		},
		Components:   c.Components,
		ConsoleLevel: consoleLevel,
	}
}

// Config represents the application configuration.
type Config struct {
	Extensions struct {
		Video    []string `mapstructure:"video"`
		Document []string `mapstructure:"document"`
	} `mapstructure:"extensions"`
	Workers        int          `mapstructure:"workers"`
	Exclude        []string     `mapstructure:"exclude"`
	FollowSymlinks bool         `mapstructure:"follow_symlinks"`
	Pacing         types.Pacing `mapstructure:"pacing"`
	Cache          struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"cache"`
	History struct {
		Enabled       bool   `mapstructure:"enabled"`
		Path          string `mapstructure:"path"`
		RetentionDays int    `mapstructure:"retention_days"`
	} `mapstructure:"history"`
	Probe struct {
		Timeout     time.Duration `mapstructure:"timeout"`
		FFProbePath string        `mapstructure:"ffprobe_path"`
	} `mapstructure:"probe"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  string        `mapstructure:"output"`
}

// Validate checks values that would otherwise fail deep inside a scan.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if err := c.Pacing.Validate(); err != nil {
		return err
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("probe.timeout must be positive, got %s", c.Probe.Timeout)
	}
	return nil
}

// NewViper returns a viper instance with defaults, search paths and
// environment binding applied, and the config file read.
// A missing config file is not an error. cfgFile overrides the search.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			v.AddConfigPath(filepath.Join(xdgConfigHome, "studytime"))
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "studytime"))
		}
	}

	v.SetEnvPrefix("STUDYTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return v, nil
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("extensions.video", DefaultVideoExtensions)
	v.SetDefault("extensions.document", DefaultDocumentExtensions)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("exclude", DefaultExclusions)
	v.SetDefault("follow_symlinks", false)

	v.SetDefault("pacing.seconds_per_page", DefaultSecondsPerPage)
	v.SetDefault("pacing.video_speed", DefaultVideoSpeed)
	v.SetDefault("pacing.hours_per_day", DefaultHoursPerDay)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", DefaultCachePath())

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryPath())
	v.SetDefault("history.retention_days", DefaultRetentionDays)

	v.SetDefault("probe.timeout", DefaultProbeTimeout)
	v.SetDefault("probe.ffprobe_path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use logging.DefaultLogPath
	v.SetDefault("logging.rotation.max_size_mb", 10)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.components", map[string]string{
		"walker":     "info",
		"aggregator": "info",
		"assembler":  "info",
		"watcher":    "warn",
	})

	v.SetDefault("output", DefaultOutput)
}

// Decode unmarshals v into a Config, expands ~ in paths and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	for _, p := range []*string{&cfg.Cache.Path, &cfg.History.Path, &cfg.Logging.Path, &cfg.Probe.FFProbePath} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/studytime/config.yaml
//   - $HOME/.config/studytime/config.yaml
//
// Environment variables are prefixed with STUDYTIME_ (e.g., STUDYTIME_WORKERS).
func Load() (*Config, error) {
	v, err := NewViper("")
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "studytime"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "studytime"), nil
}

// ConfigFile returns the path WriteDefault writes to.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return nil
}

// WriteDefault writes a commented default config file if none exists and
// returns its path. An existing file is left untouched.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", err
	}

	configPath, err := ConfigFile()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("checking config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# studytime configuration

# File suffixes counted as videos and documents (case-insensitive)
extensions:
  video: [%s]
  document: [%s]

# Concurrent tasks per metric (0 = size from CPU count and open file limit)
workers: %d

# Glob patterns skipped while walking directories
exclude: [%s]
follow_symlinks: false

# Default pacing used for estimates
pacing:
  seconds_per_page: %d
  video_speed: %g
  hours_per_day: %d

# Cache of extracted page counts and durations
cache:
  enabled: true
  path: %s

# Record of past scans
history:
  enabled: true
  path: %s
  retention_days: %d

# Media probing
probe:
  timeout: %s
  # Path to the ffprobe executable (empty means search PATH)
  ffprobe_path: ""

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/studytime/studytime.log)
  path: ""
  rotation:
    max_size_mb: 10
    max_age: 30       # days
    max_backups: 5
  components:
    walker: info
    aggregator: info
    assembler: info
    watcher: warn

# Output format: pretty, plain, json, yaml, markdown, template
output: %s
`,
		strings.Join(DefaultVideoExtensions, ", "),
		strings.Join(DefaultDocumentExtensions, ", "),
		DefaultWorkers,
		strings.Join(DefaultExclusions, ", "),
		DefaultSecondsPerPage, DefaultVideoSpeed, DefaultHoursPerDay,
		DefaultCachePath(),
		DefaultHistoryPath(), DefaultRetentionDays,
		DefaultProbeTimeout,
		DefaultOutput,
	)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("writing default config: %w", err)
	}
	return configPath, nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/studytime/.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "studytime")
}

// CacheDir returns $XDG_CACHE_HOME/studytime/.
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, "studytime")
}

// DefaultCachePath returns the default extraction cache directory.
func DefaultCachePath() string {
	return filepath.Join(CacheDir(), "extract")
}

// DefaultHistoryPath returns the default history directory.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}
