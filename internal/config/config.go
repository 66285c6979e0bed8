// =============================================================================
// XML to JSON Converter - Configuration Module
// =============================================================================
//
// This module holds the run configuration. Values come from three layers,
// later layers winning:
//   1. Built-in defaults
//   2. An optional YAML file (--config)
//   3. Command-line flags that were explicitly set
//
// EXAMPLE FILE:
//   recursion_depth: 2
//   delete_xmls: false
//   num_workers: 8
//   log_level: info
//   no_progress: false
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/XML-to-JSON-conversion/internal/logger"
)

// Worker pool bounds. Both ends are inclusive.
const (
	MinWorkers = 1
	MaxWorkers = 20
)

// DefaultWorkers is the pool size when nothing else is configured.
const DefaultWorkers = 1

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the settings of one conversion run.
type Config struct {
	// RecursionDepth limits how deep batch mode descends.
	// nil means unlimited; 0 means only files directly in PATH.
	RecursionDepth *int `yaml:"recursion_depth"`

	// DeleteXMLs removes each XML file after its JSON file is written.
	DeleteXMLs bool `yaml:"delete_xmls"`

	// NumWorkers is the batch worker pool size (MinWorkers..MaxWorkers).
	// Ignored in single-file mode, but still validated.
	NumWorkers int `yaml:"num_workers"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `yaml:"log_level"`

	// NoProgress hides the progress bar.
	NoProgress bool `yaml:"no_progress"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads a YAML configuration file.
//
// PARAMETERS:
//   - configPath: The file to read. An empty path returns the defaults.
//
// RETURNS:
//   - The configuration with defaults applied (not yet validated, since
//     flags may still override it).
//   - An error if the file cannot be read or parsed.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults sets default values for any unset option.
func (c *Config) ApplyDefaults() {
	if c.NumWorkers == 0 {
		c.NumWorkers = DefaultWorkers
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks every option.
func (c *Config) Validate() error {
	if err := ValidateWorkers(c.NumWorkers); err != nil {
		return err
	}

	if c.RecursionDepth != nil && *c.RecursionDepth < 0 {
		return fmt.Errorf("%w: recursion depth must be non-negative, got %d", ErrInvalidConfig, *c.RecursionDepth)
	}

	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: unknown log level %q (valid: %v)", ErrInvalidConfig, c.LogLevel, logger.ValidLevels)
	}

	return nil
}

// ValidateWorkers checks the worker count against MinWorkers..MaxWorkers.
func ValidateWorkers(n int) error {
	if n < MinWorkers || n > MaxWorkers {
		return fmt.Errorf("%w: number of workers must be between %d and %d, got %d", ErrInvalidConfig, MinWorkers, MaxWorkers, n)
	}
	return nil
}
