package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/juststeveking/pingscope/internal/monitor"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntervalMS = 1000
	DefaultTimeoutMS  = 800
	DefaultMaxResults = monitor.DefaultMaxResults
	DefaultTarget     = "8.8.8.8"
	DefaultLogLevel   = "info"
	DefaultLogMaxMB   = 10
	DefaultLogFiles   = 3
)

// Config represents the pingscope configuration
type Config struct {
	IntervalMS    int           `yaml:"interval_ms"`
	TimeoutMS     int           `yaml:"timeout_ms"`
	MaxResults    int           `yaml:"max_results"`
	Privileged    bool          `yaml:"privileged"`
	Notifications *bool         `yaml:"notifications,omitempty"`
	DefaultTarget string        `yaml:"default_target,omitempty"`
	Log           LoggingConfig `yaml:"log"`
	Targets       []Target      `yaml:"targets,omitempty"`
}

// LoggingConfig controls where and how much pingscope logs
type LoggingConfig struct {
	File     string `yaml:"file,omitempty"`
	Level    string `yaml:"level,omitempty"`
	MaxMB    int    `yaml:"max_mb,omitempty"`
	MaxFiles int    `yaml:"max_files,omitempty"`
}

// Target is a saved host that can be probed by name
type Target struct {
	Name string `yaml:"name"`
	Host string `yaml:"host"`
}

// GetConfigPath returns the path to the global config file
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.yml"), nil
}

// GetConfigDir returns the directory holding the config and default log file
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "pingscope"), nil
}

// InitConfig creates the config directory and file with default content
func InitConfig(force bool) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(getDefaultConfig()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadConfig reads, defaults and validates the config file
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, applying defaults before validation
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Default returns a config with every field at its default
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// SaveConfig writes the config back to the file
func SaveConfig(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.IntervalMS == 0 {
		c.IntervalMS = DefaultIntervalMS
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = min(DefaultTimeoutMS, c.IntervalMS*4/5)
	}
	if c.MaxResults == 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.DefaultTarget == "" {
		c.DefaultTarget = DefaultTarget
	}
	if c.Notifications == nil {
		enabled := true
		c.Notifications = &enabled
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.MaxMB == 0 {
		c.Log.MaxMB = DefaultLogMaxMB
	}
	if c.Log.MaxFiles == 0 {
		c.Log.MaxFiles = DefaultLogFiles
	}
}

// Validate reports every problem with the config at once
func (c *Config) Validate() error {
	var errs []string

	if c.IntervalMS <= 0 {
		errs = append(errs, "interval_ms must be > 0")
	}
	if c.TimeoutMS <= 0 {
		errs = append(errs, "timeout_ms must be > 0")
	}
	if c.IntervalMS > 0 && c.TimeoutMS >= c.IntervalMS {
		errs = append(errs, "timeout_ms must be < interval_ms")
	}
	if c.MaxResults <= 0 {
		errs = append(errs, "max_results must be > 0")
	}
	if c.Log.MaxMB < 0 {
		errs = append(errs, "log.max_mb must be >= 0")
	}
	if c.Log.MaxFiles < 0 {
		errs = append(errs, "log.max_files must be >= 0")
	}
	for i, t := range c.Targets {
		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Sprintf("targets[%d].name is required", i))
		}
		if strings.TrimSpace(t.Host) == "" {
			errs = append(errs, fmt.Sprintf("targets[%d].host is required", i))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// NotificationsEnabled reports whether desktop notifications are on
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// ProberConfig converts the config into probe loop settings
func (c *Config) ProberConfig() monitor.Config {
	return monitor.Config{
		MaxResults: c.MaxResults,
		Interval:   time.Duration(c.IntervalMS) * time.Millisecond,
		Timeout:    time.Duration(c.TimeoutMS) * time.Millisecond,
	}
}

// AddTarget adds a new saved target to the config
func (c *Config) AddTarget(target Target) error {
	if strings.TrimSpace(target.Name) == "" {
		return fmt.Errorf("target name is required")
	}
	if strings.TrimSpace(target.Host) == "" {
		return fmt.Errorf("target host is required")
	}

	for _, t := range c.Targets {
		if t.Name == target.Name {
			return fmt.Errorf("target with name '%s' already exists", target.Name)
		}
	}

	c.Targets = append(c.Targets, target)
	return nil
}

// RemoveTarget removes a saved target by name
func (c *Config) RemoveTarget(name string) error {
	for i, t := range c.Targets {
		if t.Name == name {
			c.Targets = append(c.Targets[:i], c.Targets[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("target '%s' not found", name)
}

// ResolveTarget maps a saved target name to its host. Anything else is
// returned as a literal host. ${VAR} placeholders are expanded.
func (c *Config) ResolveTarget(nameOrHost string) string {
	nameOrHost = strings.TrimSpace(nameOrHost)
	for _, t := range c.Targets {
		if t.Name == nameOrHost {
			return ResolveEnv(t.Host)
		}
	}
	return ResolveEnv(nameOrHost)
}

// getDefaultConfig returns the default configuration as YAML
func getDefaultConfig() string {
	return fmt.Sprintf(`# pingscope configuration
# Probe cadence and window
interval_ms: %d
timeout_ms: %d
max_results: %d

# Raw ICMP sockets need root or CAP_NET_RAW
privileged: false
notifications: true
default_target: %s

log:
  level: %s
  max_mb: %d
  max_files: %d

# Saved targets can be started by name
targets:
  - name: google-dns
    host: 8.8.8.8
`, DefaultIntervalMS, DefaultTimeoutMS, DefaultMaxResults, DefaultTarget, DefaultLogLevel, DefaultLogMaxMB, DefaultLogFiles)
}

// ResolveEnv replaces environment variable placeholders with actual values
// Supports ${VAR_NAME} syntax
func ResolveEnv(value string) string {
	return os.ExpandEnv(strings.NewReplacer(
		"${", "$",
		"}", "",
	).Replace(value))
}
