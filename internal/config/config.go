// Package config provides configuration management for coffee.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/logging"
)

// Environment variables that override the configuration file.
const (
	EnvLogLevel               = "COFFEE_LOG_LEVEL"
	EnvConcurrentRequestLimit = "COFFEE_CONCURRENT_REQUEST_LIMIT"
)

// Config represents the coffee configuration.
type Config struct {
	Coffee CoffeeConfig `yaml:"coffee"`
}

// CoffeeConfig contains the main coffee settings.
type CoffeeConfig struct {
	// Columns names the batch table columns the ordering engine reads.
	Columns calc.Columns `yaml:"columns"`

	// Sort configures the dependency ordering.
	Sort SortConfig `yaml:"sort"`

	// Workers configures batch processing.
	Workers WorkersConfig `yaml:"workers"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`
}

// SortConfig contains ordering settings.
type SortConfig struct {
	// Reverse puts dependencies last.
	Reverse bool `yaml:"reverse"`

	// CyclePolicy is "strict" or "lenient".
	CyclePolicy string `yaml:"cycle_policy"`
}

// WorkersConfig contains batch processing settings.
type WorkersConfig struct {
	Concurrent             bool `yaml:"concurrent"`
	ConcurrentRequestLimit int  `yaml:"concurrent_request_limit"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Coffee: CoffeeConfig{
			Columns: calc.DefaultColumns(),
			Sort: SortConfig{
				Reverse:     false,
				CyclePolicy: calc.CycleStrict.String(),
			},
			Workers: WorkersConfig{
				Concurrent:             false,
				ConcurrentRequestLimit: 4,
			},
			Log: LogConfig{
				Level:  "info",
				Format: string(logging.FormatPretty),
			},
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ErrNotFound is returned by FindConfig when no configuration file exists.
var ErrNotFound = errors.New("no coffee configuration found")

// FindConfig searches for a configuration file starting from the given path.
func FindConfig(startPath string) (string, error) {
	candidates := []string{
		".coffee/config.yaml",
		"coffee.yaml",
		"coffee.yml",
	}

	// Search from start path upward
	dir := startPath
	for {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrNotFound
}

// LoadFromDir loads configuration from the given directory, falling back to
// the defaults when no file is found.
func LoadFromDir(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// ApplyEnv overrides settings from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.Coffee.Log.Level = v
	}
	if v := strings.TrimSpace(getenv(EnvConcurrentRequestLimit)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrentRequestLimit, err)
		}
		c.Coffee.Workers.ConcurrentRequestLimit = n
	}
	return nil
}

// Validate reports settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error

	cols := c.Coffee.Columns
	for role, name := range map[string]string{
		"formula":        cols.Formula,
		"is_calculation": cols.IsCalculation,
		"name":           cols.Name,
		"references":     cols.References,
	} {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, fmt.Errorf("columns.%s must not be empty", role))
		}
	}

	if _, err := calc.ParseCyclePolicy(c.Coffee.Sort.CyclePolicy); err != nil {
		errs = append(errs, fmt.Errorf("sort.cycle_policy: %w", err))
	}

	if c.Coffee.Workers.ConcurrentRequestLimit < 1 {
		errs = append(errs, fmt.Errorf("workers.concurrent_request_limit must be positive, got %d",
			c.Coffee.Workers.ConcurrentRequestLimit))
	}

	if _, err := logging.LookupLevel(c.Coffee.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if _, err := logging.ParseFormat(c.Coffee.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}

	return errors.Join(errs...)
}

// SorterOptions converts the configuration into ordering options.
func (c *Config) SorterOptions(logger *slog.Logger) calc.Options {
	// Validate has already rejected unknown policies.
	policy, _ := calc.ParseCyclePolicy(c.Coffee.Sort.CyclePolicy)
	return calc.Options{
		Columns:     c.Coffee.Columns,
		Reverse:     c.Coffee.Sort.Reverse,
		CyclePolicy: policy,
		Logger:      logger,
	}
}

// Logging converts the configuration into a logging configuration.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Coffee.Log.Level)
	if f, err := logging.ParseFormat(c.Coffee.Log.Format); err == nil {
		cfg.Format = f
	}
	return cfg
}
