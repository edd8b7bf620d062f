package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MetricThreshold pairs a metric name with its required minimum percentage.
type MetricThreshold struct {
	Metric  string
	Minimum int
}

// Thresholds holds the required minimum percentage per coverage metric.
// The field order is the declared metric order used for validation output.
type Thresholds struct {
	Lines      int `yaml:"lines" json:"lines"`
	Functions  int `yaml:"functions" json:"functions"`
	Branches   int `yaml:"branches" json:"branches"`
	Statements int `yaml:"statements" json:"statements"`
}

// DefaultThresholds returns the standard threshold values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Lines:      90,
		Functions:  90,
		Branches:   80,
		Statements: 90,
	}
}

// Ordered returns the thresholds as metric/minimum pairs in declared order.
func (t Thresholds) Ordered() []MetricThreshold {
	return []MetricThreshold{
		{Metric: "lines", Minimum: t.Lines},
		{Metric: "functions", Minimum: t.Functions},
		{Metric: "branches", Minimum: t.Branches},
		{Metric: "statements", Minimum: t.Statements},
	}
}

// HistoryConfig controls run history persistence.
type HistoryConfig struct {
	// Enabled turns run history recording on or off
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database, relative to the repo root
	DBPath string `yaml:"db_path"`
}

// Config represents covgate configuration options.
type Config struct {
	// OutputDir is the directory where coverage artifacts are written
	OutputDir string `yaml:"output_dir"`

	// TestCommand is the external test-with-coverage command, split on
	// whitespace. An empty command skips the test run entirely.
	TestCommand string `yaml:"test_command"`

	// TestTimeout bounds the external test run; expiry is treated the same
	// as a failed run
	TestTimeout time.Duration `yaml:"test_timeout"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// SourceGlobs match source files when counting for estimation
	SourceGlobs []string `yaml:"source_globs"`

	// TestGlobs match test files when counting for estimation
	TestGlobs []string `yaml:"test_globs"`

	// ExcludeDirs are directory names skipped while counting files
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Thresholds are the required minimum percentages per metric
	Thresholds Thresholds `yaml:"thresholds"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:   "coverage",
		TestCommand: "go test ./... -coverprofile=coverage/coverage.out",
		TestTimeout: 10 * time.Minute,
		LogLevel:    "info",
		SourceGlobs: []string{"**/*.go"},
		TestGlobs:   []string{"**/*_test.go"},
		ExcludeDirs: []string{".git", "vendor", "node_modules", "coverage", ".covgate"},
		Thresholds:  DefaultThresholds(),
		History: HistoryConfig{
			Enabled: true,
			DBPath:  ".covgate/history.db",
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	// Use a temporary struct to handle duration parsing
	type yamlConfig struct {
		OutputDir   string        `yaml:"output_dir"`
		TestCommand string        `yaml:"test_command"`
		TestTimeout string        `yaml:"test_timeout"`
		LogLevel    string        `yaml:"log_level"`
		SourceGlobs []string      `yaml:"source_globs"`
		TestGlobs   []string      `yaml:"test_globs"`
		ExcludeDirs []string      `yaml:"exclude_dirs"`
		Thresholds  Thresholds    `yaml:"thresholds"`
		History     HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.OutputDir != "" {
		cfg.OutputDir = yamlCfg.OutputDir
	}
	if yamlCfg.TestCommand != "" {
		cfg.TestCommand = yamlCfg.TestCommand
	}
	if yamlCfg.TestTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.TestTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid test_timeout format %q: %w", yamlCfg.TestTimeout, err)
		}
		cfg.TestTimeout = timeout
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if len(yamlCfg.SourceGlobs) > 0 {
		cfg.SourceGlobs = yamlCfg.SourceGlobs
	}
	if len(yamlCfg.TestGlobs) > 0 {
		cfg.TestGlobs = yamlCfg.TestGlobs
	}
	if len(yamlCfg.ExcludeDirs) > 0 {
		cfg.ExcludeDirs = yamlCfg.ExcludeDirs
	}

	// Merge nested sections. A zero value in YAML is meaningful here
	// (threshold 0 disables a metric, enabled:false turns history off), so
	// detect key presence via a raw unmarshal rather than non-zero checks.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, exists := rawMap["thresholds"]; exists && section != nil {
			thresholdMap, _ := section.(map[string]interface{})

			if _, exists := thresholdMap["lines"]; exists {
				cfg.Thresholds.Lines = yamlCfg.Thresholds.Lines
			}
			if _, exists := thresholdMap["functions"]; exists {
				cfg.Thresholds.Functions = yamlCfg.Thresholds.Functions
			}
			if _, exists := thresholdMap["branches"]; exists {
				cfg.Thresholds.Branches = yamlCfg.Thresholds.Branches
			}
			if _, exists := thresholdMap["statements"]; exists {
				cfg.Thresholds.Statements = yamlCfg.Thresholds.Statements
			}
		}

		if section, exists := rawMap["history"]; exists && section != nil {
			historyMap, _ := section.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = yamlCfg.History.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = yamlCfg.History.DBPath
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .covgate/config.yaml in the
// specified directory. If the directory or file doesn't exist, returns
// default configuration without error. Environment variables override file
// values (COVGATE_OUTPUT_DIR, COVGATE_TEST_COMMAND, COVGATE_TEST_TIMEOUT,
// COVGATE_LOG_LEVEL).
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".covgate", "config.yaml")
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides merges environment variable overrides into the config.
// Variables are typically populated from a .env file at process start.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("COVGATE_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("COVGATE_TEST_COMMAND"); v != "" {
		c.TestCommand = v
	}
	if v := os.Getenv("COVGATE_TEST_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid COVGATE_TEST_TIMEOUT %q: %w", v, err)
		}
		c.TestTimeout = timeout
	}
	if v := os.Getenv("COVGATE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	// Validate log_level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	// Timeout can be 0 (no timeout) or positive, negative is invalid
	if c.TestTimeout < 0 {
		return fmt.Errorf("test_timeout must be >= 0, got %v", c.TestTimeout)
	}

	for _, t := range c.Thresholds.Ordered() {
		if t.Minimum < 0 || t.Minimum > 100 {
			return fmt.Errorf("threshold for %s must be in [0,100], got %d", t.Metric, t.Minimum)
		}
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
