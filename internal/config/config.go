package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// DeviceAddress is the cooker's BLE address (MAC on Linux, platform
	// UUID on macOS). Empty means discover by advertised name.
	DeviceAddress string `yaml:"device_address"`
	// DeviceName is the advertised name matched during discovery.
	DeviceName string `yaml:"device_name"`
	// ResponseTimeout bounds the wait for a command response, e.g. "5s".
	ResponseTimeout string `yaml:"response_timeout"`
	// ScanTimeout bounds device discovery, e.g. "10s".
	ScanTimeout string `yaml:"scan_timeout"`
	LogLevel    string `yaml:"log_level"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "anovactl")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		DeviceAddress:   "",
		DeviceName:      "Anova",
		ResponseTimeout: "5s",
		ScanTimeout:     "10s",
		LogLevel:        "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.DeviceName == "" {
		return fmt.Errorf("device_name must not be empty")
	}

	if _, err := time.ParseDuration(c.ResponseTimeout); err != nil {
		return fmt.Errorf("response_timeout: %w", err)
	}

	if _, err := time.ParseDuration(c.ScanTimeout); err != nil {
		return fmt.Errorf("scan_timeout: %w", err)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// ResponseTimeoutDuration returns the parsed response timeout. Call
// Validate first; an unparseable value falls back to the default.
func (c *Config) ResponseTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ResponseTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// ScanTimeoutDuration returns the parsed scan timeout. Call Validate
// first; an unparseable value falls back to the default.
func (c *Config) ScanTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ScanTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
