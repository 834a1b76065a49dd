package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected default backend sqlite, got %s", cfg.Storage.Backend)
	}

	if cfg.Output.DefaultFormat != "markdown" {
		t.Errorf("expected default_format markdown, got %s", cfg.Output.DefaultFormat)
	}

	if cfg.Report.DefaultMode != "full" {
		t.Errorf("expected default_mode full, got %s", cfg.Report.DefaultMode)
	}

	if cfg.Services.DiagramURL != "" || cfg.Services.PDFURL != "" {
		t.Error("expected external services to be disabled by default")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"markdown", true},
		{"json", true},
		{"yaml", true},
		{"pdf", false},
		{"", false},
		{"JSON", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			result := IsValidFormat(tt.format)
			if result != tt.valid {
				t.Errorf("IsValidFormat(%q) = %v, want %v", tt.format, result, tt.valid)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "dolt backend",
			modify:  func(c *Config) { c.Storage.Backend = "dolt" },
			wantErr: false,
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Storage.Backend = "postgres" },
			wantErr: true,
		},
		{
			name:    "invalid format",
			modify:  func(c *Config) { c.Output.DefaultFormat = "docx" },
			wantErr: true,
		},
		{
			name:    "invalid mode",
			modify:  func(c *Config) { c.Report.DefaultMode = "fast" },
			wantErr: true,
		},
		{
			name:    "unparseable timeout",
			modify:  func(c *Config) { c.Services.Timeout = "soon" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Services.Timeout = "0s" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty loaded uses all defaults", func(t *testing.T) {
		merged := Merge(&Config{}, defaults)

		if merged.Output.DefaultFormat != defaults.Output.DefaultFormat {
			t.Errorf("expected format %s, got %s", defaults.Output.DefaultFormat, merged.Output.DefaultFormat)
		}
		if merged.Storage.Path != defaults.Storage.Path {
			t.Errorf("expected path %s, got %s", defaults.Storage.Path, merged.Storage.Path)
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		loaded := &Config{
			Storage:  StorageConfig{Backend: "dolt"},
			Services: ServicesConfig{DiagramURL: "http://kroki:8000"},
		}
		merged := Merge(loaded, defaults)

		if merged.Storage.Backend != "dolt" {
			t.Errorf("expected backend dolt, got %s", merged.Storage.Backend)
		}
		if merged.Services.DiagramURL != "http://kroki:8000" {
			t.Errorf("expected diagram url, got %s", merged.Services.DiagramURL)
		}
		if merged.Services.Timeout != defaults.Services.Timeout {
			t.Errorf("expected default timeout %s, got %s", defaults.Services.Timeout, merged.Services.Timeout)
		}
	})
}

func TestServiceTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Services.Timeout = "5s"
	if got := cfg.ServiceTimeout(); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}

	cfg.Services.Timeout = "bogus"
	if got := cfg.ServiceTimeout(); got != 30*time.Second {
		t.Errorf("expected fallback 30s, got %v", got)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.DatabasePath("/work/.asz"); got != filepath.Join("/work/.asz", "scenarios.db") {
		t.Errorf("expected relative path to resolve against config dir, got %s", got)
	}

	cfg.Storage.Backend = "dolt"
	if got := cfg.DatabasePath("/work/.asz"); got != filepath.Join("/work/.asz", "dolt") {
		t.Errorf("expected dolt directory, got %s", got)
	}

	abs := filepath.Join(t.TempDir(), "x.db")
	cfg.Storage.Path = abs
	if got := cfg.DatabasePath("/work/.asz"); got != abs {
		t.Errorf("expected absolute path unchanged, got %s", got)
	}
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("no config dir returns error", func(t *testing.T) {
		_, err := FindConfigDir(subDir)
		if err == nil {
			t.Error("expected error when no .asz directory exists")
		}
	})

	configDir := filepath.Join(projectDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config dir in current directory", func(t *testing.T) {
		found, err := FindConfigDir(projectDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})

	t.Run("finds config dir in parent directory", func(t *testing.T) {
		found, err := FindConfigDir(subDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
storage:
  backend: dolt
output:
  default_format: json
services:
  pdf_url: http://gotenberg:3000/forms/markdown
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Storage.Backend != "dolt" {
			t.Errorf("expected backend dolt, got %s", cfg.Storage.Backend)
		}
		if cfg.Output.DefaultFormat != "json" {
			t.Errorf("expected format json, got %s", cfg.Output.DefaultFormat)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected default level info, got %s", cfg.Logging.Level)
		}
	})

	t.Run("returns defaults for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nonexistent.yaml"))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Output.DefaultFormat != "markdown" {
			t.Errorf("expected default format, got %s", cfg.Output.DefaultFormat)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadFromPath(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid config values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad-values.yaml")
		if err := os.WriteFile(configPath, []byte("output:\n  default_format: docx\n"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLoadAndSaveDefault(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected defaults without a config dir, got backend %s", cfg.Storage.Backend)
	}

	path, err := SaveDefault(tmpDir)
	if err != nil {
		t.Fatalf("SaveDefault failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# asz configuration") {
		t.Errorf("expected header comment, got %q", string(data)[:20])
	}

	if _, err := SaveDefault(tmpDir); err == nil {
		t.Error("expected error when config already exists")
	}

	cfg, err = Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error loading saved config: %v", err)
	}
	if cfg.Services.Timeout != "30s" {
		t.Errorf("expected saved timeout 30s, got %s", cfg.Services.Timeout)
	}
}
