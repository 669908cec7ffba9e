package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrOutOfRange      = errors.New("value out of range")
)

// Field limits.
const (
	MaxPathLength      = 4096
	MaxStyleLength     = 100
	MaxWidth           = 4096
	MaxProbeHeight     = 16384
	MaxScaleFactor     = 8.0
	MaxPollInterval    = 10 * time.Second
	MaxSettleTimeout   = 5 * time.Minute
	MaxTypesetFallback = 5 * time.Minute
	MaxTimeout         = 30 * time.Minute
)

// dirName is the directory under os.UserConfigDir searched for named configs.
const dirName = "go-md2png"

// Config holds all configuration for image rendering.
// Zero values mean "use the built-in default".
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Browser BrowserConfig `yaml:"browser"`
	Assets  AssetsConfig  `yaml:"assets"`
	Output  OutputConfig  `yaml:"output"`
}

// RenderConfig defines viewport and timing options.
type RenderConfig struct {
	Width             int           `yaml:"width"`             // logical CSS pixels (default: 375)
	DeviceScaleFactor float64       `yaml:"deviceScaleFactor"` // pixel density (default: 4)
	ProbeHeight       int           `yaml:"probeHeight"`       // initial viewport height (default: 800)
	PollInterval      time.Duration `yaml:"pollInterval"`      // ready-signal poll period (default: 50ms)
	SettleTimeout     time.Duration `yaml:"settleTimeout"`     // ready-signal ceiling (default: 5s)
	TypesetFallback   time.Duration `yaml:"typesetFallback"`   // in-page ready deadline (default: 4s)
	Timeout           time.Duration `yaml:"timeout"`           // whole conversion (default: 60s)
}

// BrowserConfig defines browser process options.
type BrowserConfig struct {
	Bin          string `yaml:"bin"`          // executable path (empty = discover)
	NoSandbox    *bool  `yaml:"noSandbox"`    // nil = default (sandbox disabled)
	AllowNetwork bool   `yaml:"allowNetwork"` // permit http(s) requests from the page
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
	Style    string `yaml:"style"`    // style name (default: "mobile")
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = next to the input file, or the working directory
}

// Validate checks ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	r := c.Render
	if err := validateIntRange("render.width", r.Width, MaxWidth); err != nil {
		return err
	}
	if err := validateIntRange("render.probeHeight", r.ProbeHeight, MaxProbeHeight); err != nil {
		return err
	}
	if r.DeviceScaleFactor < 0 || r.DeviceScaleFactor > MaxScaleFactor {
		return fmt.Errorf("%w: render.deviceScaleFactor must be between 0 and %.0f, got %.2f",
			ErrOutOfRange, MaxScaleFactor, r.DeviceScaleFactor)
	}

	durations := []struct {
		field string
		value time.Duration
		max   time.Duration
	}{
		{"render.pollInterval", r.PollInterval, MaxPollInterval},
		{"render.settleTimeout", r.SettleTimeout, MaxSettleTimeout},
		{"render.typesetFallback", r.TypesetFallback, MaxTypesetFallback},
		{"render.timeout", r.Timeout, MaxTimeout},
	}
	for _, d := range durations {
		if d.value < 0 || d.value > d.max {
			return fmt.Errorf("%w: %s must be between 0 and %s, got %s", ErrOutOfRange, d.field, d.max, d.value)
		}
	}
	if r.PollInterval > 0 && r.SettleTimeout > 0 && r.PollInterval > r.SettleTimeout {
		return fmt.Errorf("%w: render.pollInterval (%s) exceeds render.settleTimeout (%s)",
			ErrOutOfRange, r.PollInterval, r.SettleTimeout)
	}

	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.style", c.Assets.Style, MaxStyleLength); err != nil {
		return err
	}
	return validateFieldLength("output.dir", c.Output.Dir, MaxPathLength)
}

// validateIntRange accepts 0 (default) or 1..maxValue.
func validateIntRange(fieldName string, value, maxValue int) error {
	if value < 0 || value > maxValue {
		return fmt.Errorf("%w: %s must be between 0 and %d, got %d", ErrOutOfRange, fieldName, maxValue, value)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration where every field uses its default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator or ends in .yaml/.yml, it's treated
// as a file path. Otherwise, it's treated as a config name and searched in
// standard locations. Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	if strings.ContainsAny(s, "/\\") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <UserConfigDir>/go-md2png/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, dirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
