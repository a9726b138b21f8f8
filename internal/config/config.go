package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It names the rule set to load, execution settings, and logging
// parameters. The rule set itself lives in its own file (see
// internal/rules) so it can be edited and exported independently.
type Config struct {
	Rules struct {
		File string `yaml:"file"` // Path to the YAML rule set
	} `yaml:"rules"`
	Settings struct {
		DryRun  bool `yaml:"dry_run"` // If true, simulate operations
		Workers int  `yaml:"workers"` // Worker pool size; 0 means available parallelism
	} `yaml:"settings"`
	Directories struct {
		Default string `yaml:"default"` // Default source directory for sort passes
	} `yaml:"directories"`
	Log struct {
		Debug bool   `yaml:"debug"` // Enable debug-level logging
		JSON  bool   `yaml:"json"`  // Emit JSON log lines
		File  string `yaml:"file"`  // Optional log file, teed with stdout
	} `yaml:"log"`
}

// DefaultConfigPath returns the conventional config file location
// under the XDG config home.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "declutter", "config.yaml")
}

// DefaultRulesPath returns the conventional rule set location under
// the XDG config home.
func DefaultRulesPath() string {
	return filepath.Join(xdg.ConfigHome, "declutter", "rules.yaml")
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	return LoadConfigFile(DefaultConfigPath())
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := defaultConfig()

	// Try to read the config file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge the loaded config with defaults
	if tempCfg.Rules.File != "" {
		cfg.Rules.File = tempCfg.Rules.File
	}
	cfg.Settings.DryRun = tempCfg.Settings.DryRun
	if tempCfg.Settings.Workers > 0 {
		cfg.Settings.Workers = tempCfg.Settings.Workers
	}
	if tempCfg.Directories.Default != "" {
		cfg.Directories.Default = tempCfg.Directories.Default
	}
	cfg.Log.Debug = tempCfg.Log.Debug
	cfg.Log.JSON = tempCfg.Log.JSON
	if tempCfg.Log.File != "" {
		cfg.Log.File = tempCfg.Log.File
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Rules.File = DefaultRulesPath()

	// Set default settings
	cfg.Settings.DryRun = true // Safe by default
	cfg.Settings.Workers = 0   // 0 selects available parallelism

	cfg.Directories.Default = "." // Current directory by default

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal the config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write the data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Rules.File == "" {
		return fmt.Errorf("rules file path is required")
	}

	if c.Settings.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	return nil
}

// WorkerCount resolves the configured worker pool size, falling back
// to the available parallelism.
func (c *Config) WorkerCount() int {
	if c.Settings.Workers > 0 {
		return c.Settings.Workers
	}
	return runtime.NumCPU()
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Settings.DryRun = false
	cfg.Settings.Workers = 2
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
