package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the asz configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the asz configuration directory
const ConfigDirName = ".asz"

// Config holds all asz configuration
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Output   OutputConfig   `yaml:"output"`
	Report   ReportConfig   `yaml:"report"`
	Services ServicesConfig `yaml:"services"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// StorageConfig selects the scenario store backend
type StorageConfig struct {
	// Backend is "sqlite" or "dolt"
	Backend string `yaml:"backend"`

	// Path is the database location, relative to the config directory.
	// Empty selects scenarios.db for sqlite and the dolt/ directory for dolt.
	Path string `yaml:"path,omitempty"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// ReportConfig holds report generation settings
type ReportConfig struct {
	// Version overrides the tool version stamped into report metadata.
	Version string `yaml:"version"`

	// DefaultMode is used for scenarios that do not set a mode.
	DefaultMode string `yaml:"default_mode"`
}

// ServicesConfig points at optional external rendering services.
// Empty URLs disable the service.
type ServicesConfig struct {
	DiagramURL string `yaml:"diagram_url"`
	PDFURL     string `yaml:"pdf_url"`
	Timeout    string `yaml:"timeout"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .asz/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .asz directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .asz directory if it doesn't exist.
// Returns the path to the .asz directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if !IsValidBackend(cfg.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend must be one of %v, got %q",
			ErrInvalidConfig, ValidBackends, cfg.Storage.Backend)
	}

	if !IsValidFormat(cfg.Output.DefaultFormat) {
		return fmt.Errorf("%w: default_format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.DefaultFormat)
	}

	switch cfg.Report.DefaultMode {
	case "full", "quick":
	default:
		return fmt.Errorf("%w: default_mode must be full or quick, got %q",
			ErrInvalidConfig, cfg.Report.DefaultMode)
	}

	if d, err := time.ParseDuration(cfg.Services.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("%w: services.timeout must be a positive duration, got %q",
			ErrInvalidConfig, cfg.Services.Timeout)
	}

	if !IsValidLevel(cfg.Logging.Level) {
		return fmt.Errorf("%w: logging.level must be one of %v, got %q",
			ErrInvalidConfig, ValidLevels, cfg.Logging.Level)
	}

	return nil
}

// ServiceTimeout returns the parsed services timeout.
func (c *Config) ServiceTimeout() time.Duration {
	d, err := time.ParseDuration(c.Services.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// DatabasePath resolves the storage path against the config directory.
func (c *Config) DatabasePath(configDir string) string {
	path := c.Storage.Path
	if path == "" {
		path = "scenarios.db"
		if c.Storage.Backend == "dolt" {
			path = "dolt"
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}

// SaveDefault writes the default configuration to .asz/config.yaml in workDir.
// Creates the .asz directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := Save(DefaultConfig(), configPath); err != nil {
		return "", err
	}

	return configPath, nil
}

// Save writes cfg to path as YAML with a header comment, replacing any
// existing file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := "# asz configuration\n# Rules overrides live next to this file in rules.yaml\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
