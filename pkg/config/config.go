// Package config loads scanner and extractor settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/specvital/codelens/pkg/parser"
	"github.com/specvital/codelens/pkg/parser/strategies"
	"github.com/specvital/codelens/pkg/parser/strategies/javascript"
	"github.com/specvital/codelens/pkg/parser/strategies/python"
	"github.com/specvital/codelens/pkg/parser/strategies/typescript"
)

// FileName is the conventional name of the configuration file.
const FileName = ".codelens.yaml"

// ErrInvalidConfig is returned when a config file cannot be parsed or fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds all codelens configuration.
type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	Python PythonConfig `yaml:"python"`
}

// ScanConfig holds configuration for project scanning.
type ScanConfig struct {
	// Patterns restricts scanning to files matching any doublestar glob.
	Patterns []string `yaml:"patterns"`
	// Exclude lists directory names skipped in addition to the defaults.
	Exclude []string `yaml:"exclude"`
	// Workers is the number of concurrent extractions; 0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`
	// MaxFileSize is the largest file, in bytes, that is extracted.
	MaxFileSize int64 `yaml:"max_file_size"`
	// Timeout bounds a whole scan, e.g. "90s".
	Timeout time.Duration `yaml:"timeout"`
}

// PythonConfig holds configuration for the Python extractor.
type PythonConfig struct {
	// TrackedCalls lists callee names recorded as call sites.
	// Omitted means the defaults; an empty list disables call tracking.
	TrackedCalls []string `yaml:"tracked_calls"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Workers:     parser.DefaultWorkers,
			MaxFileSize: parser.DefaultMaxFileSize,
			Timeout:     parser.DefaultTimeout,
		},
		Python: PythonConfig{
			TrackedCalls: append([]string{}, python.DefaultTrackedCalls...),
		},
	}
}

// Load reads the config file at path. A missing file yields DefaultConfig.
// Unset fields take their default values; unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, merges it with the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	loaded := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(loaded); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Merge fills the unset fields of loaded from defaults.
func Merge(loaded, defaults *Config) *Config {
	merged := *loaded

	if merged.Scan.MaxFileSize == 0 {
		merged.Scan.MaxFileSize = defaults.Scan.MaxFileSize
	}
	if merged.Scan.Timeout == 0 {
		merged.Scan.Timeout = defaults.Scan.Timeout
	}
	if merged.Python.TrackedCalls == nil {
		merged.Python.TrackedCalls = defaults.Python.TrackedCalls
	}

	return &merged
}

// Validate checks cfg for values the scanner cannot honour.
func Validate(cfg *Config) error {
	if cfg.Scan.Workers < 0 || cfg.Scan.Workers > parser.MaxWorkers {
		return fmt.Errorf("%w: scan.workers must be between 0 and %d, got %d", ErrInvalidConfig, parser.MaxWorkers, cfg.Scan.Workers)
	}
	if cfg.Scan.MaxFileSize < 0 {
		return fmt.Errorf("%w: scan.max_file_size must not be negative", ErrInvalidConfig)
	}
	if cfg.Scan.Timeout < 0 {
		return fmt.Errorf("%w: scan.timeout must not be negative", ErrInvalidConfig)
	}
	for _, p := range cfg.Scan.Patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: scan.patterns: malformed pattern %q", ErrInvalidConfig, p)
		}
	}
	for _, name := range cfg.Python.TrackedCalls {
		if name == "" {
			return fmt.Errorf("%w: python.tracked_calls must not contain empty names", ErrInvalidConfig)
		}
	}
	return nil
}

// Registry builds an extractor registry configured by cfg.
func (c *Config) Registry() *strategies.Registry {
	registry := strategies.NewRegistry()
	registry.Register(python.NewExtractor(python.WithTrackedCalls(c.Python.TrackedCalls...)))
	registry.Register(javascript.NewExtractor())
	registry.Register(typescript.NewExtractor())
	return registry
}

// ScanOptions converts cfg to scanner options, including a configured registry.
func (c *Config) ScanOptions() []parser.ScanOption {
	return []parser.ScanOption{
		parser.WithWorkers(c.Scan.Workers),
		parser.WithTimeout(c.Scan.Timeout),
		parser.WithMaxFileSize(c.Scan.MaxFileSize),
		parser.WithPatterns(c.Scan.Patterns),
		parser.WithExcludePatterns(c.Scan.Exclude),
		parser.WithRegistry(c.Registry()),
	}
}
