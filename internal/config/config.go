// Package config loads lexidx settings from YAML files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lexidx/lexidx/internal/errors"
)

// ProjectConfigName is the per-project configuration file.
const ProjectConfigName = ".lexidx.yaml"

// Config represents the complete lexidx configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// IndexConfig configures where the durable index is written.
type IndexConfig struct {
	// Path is the index file (default: index.json).
	Path string `yaml:"path" json:"path"`

	// Format is "json", "sqlite" or empty to pick by file extension.
	Format string `yaml:"format" json:"format"`
}

// ServerConfig configures `lexidx serve`.
type ServerConfig struct {
	Address         string        `yaml:"address" json:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	// StatsCacheSize is the number of index summaries kept for /api/stats.
	StatsCacheSize int `yaml:"stats_cache_size" json:"stats_cache_size"`
	// MaxBodyBytes caps search request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes"`
}

// WatchConfig configures `lexidx index --watch`.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before re-indexing.
	Debounce time.Duration `yaml:"debounce" json:"debounce"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	File      string `yaml:"file" json:"file"` // empty uses ~/.lexidx/logs/lexidx.log
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

var (
	validFormats = map[string]bool{"": true, "auto": true, "json": true, "sqlite": true}
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Index: IndexConfig{
			Path:   "index.json",
			Format: "",
		},
		Server: ServerConfig{
			Address:         "127.0.0.1:6969",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			StatsCacheSize:  8,
			MaxBodyBytes:    1 << 20,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/lexidx/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/lexidx/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lexidx", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "lexidx", "config.yaml")
	}
	return filepath.Join(home, ".config", "lexidx", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user config.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists reports whether a user config file is present.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds the effective configuration. Later sources override earlier:
//  1. Hardcoded defaults
//  2. User config (~/.config/lexidx/config.yaml)
//  3. explicit, when non-empty, else .lexidx.yaml (or .lexidx.yml) in dir
//  4. Environment variables (LEXIDX_*)
//
// A missing explicit file is an error; missing implicit files are not.
func Load(dir, explicit string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if explicit != "" {
		if !fileExists(explicit) {
			return nil, errors.New(errors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file not found: %s", explicit), nil).
				WithDetail("path", explicit).
				WithSuggestion("Create one with 'lexidx config init'")
		}
		if err := cfg.loadYAML(explicit); err != nil {
			return nil, err
		}
	} else if err := cfg.loadFromDir(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromDir(dir string) error {
	for _, name := range []string{ProjectConfigName, ".lexidx.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return c.loadYAML(path)
		}
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IOError(path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to parse config file %s: %v", path, err), err).
			WithDetail("path", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Index.Path != "" {
		c.Index.Path = other.Index.Path
	}
	if other.Index.Format != "" {
		c.Index.Format = other.Index.Format
	}

	if other.Server.Address != "" {
		c.Server.Address = other.Server.Address
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if other.Server.StatsCacheSize != 0 {
		c.Server.StatsCacheSize = other.Server.StatsCacheSize
	}
	if other.Server.MaxBodyBytes != 0 {
		c.Server.MaxBodyBytes = other.Server.MaxBodyBytes
	}

	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxFiles != 0 {
		c.Logging.MaxFiles = other.Logging.MaxFiles
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LEXIDX_INDEX_PATH"); v != "" {
		c.Index.Path = v
	}
	if v := os.Getenv("LEXIDX_INDEX_FORMAT"); v != "" {
		c.Index.Format = strings.ToLower(v)
	}
	if v := os.Getenv("LEXIDX_ADDRESS"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("LEXIDX_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LEXIDX_WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Watch.Debounce = d
		}
	}
	if v := os.Getenv("LEXIDX_STATS_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.StatsCacheSize = n
		}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.ConfigError(fmt.Sprintf(format, args...), nil).
			WithSuggestion("Check " + ProjectConfigName + ", the user config and LEXIDX_* variables")
	}

	if c.Index.Path == "" {
		return invalid("index.path must not be empty")
	}
	if !validFormats[strings.ToLower(c.Index.Format)] {
		return invalid("index.format must be 'json', 'sqlite' or empty, got %s", c.Index.Format)
	}
	if c.Server.Address == "" {
		return invalid("server.address must not be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return invalid("server timeouts must be positive")
	}
	if c.Server.StatsCacheSize <= 0 {
		return invalid("server.stats_cache_size must be positive, got %d", c.Server.StatsCacheSize)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Watch.Debounce <= 0 {
		return invalid("watch.debounce must be positive, got %s", c.Watch.Debounce)
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB <= 0 {
		return invalid("logging.max_size_mb must be positive, got %d", c.Logging.MaxSizeMB)
	}
	if c.Logging.MaxFiles <= 0 {
		return invalid("logging.max_files must be positive, got %d", c.Logging.MaxFiles)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.InternalError("failed to marshal config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}

// FindProjectRoot walks up from startDir to the nearest directory holding a
// .lexidx.yaml or .git entry. It returns startDir itself when none is found.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absDir
	for {
		if fileExists(filepath.Join(current, ProjectConfigName)) ||
			fileExists(filepath.Join(current, ".lexidx.yml")) ||
			dirExists(filepath.Join(current, ".git")) {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return absDir, nil
		}
		current = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
