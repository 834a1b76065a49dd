package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hargabyte/agentsizer/internal/config"
	"github.com/hargabyte/agentsizer/internal/output"
	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/store"
)

// env is the resolved configuration for one command invocation.
type env struct {
	// Dir is the .asz directory, empty when the project is not initialized.
	Dir    string
	Config *config.Config
}

// loadEnv resolves the config file from --config or by walking up from the
// working directory.
func loadEnv() (*env, error) {
	if configPath != "" {
		cfg, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, err
		}
		return &env{Dir: filepath.Dir(configPath), Config: cfg}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	dir, err := config.FindConfigDir(cwd)
	if err != nil {
		return &env{Config: config.DefaultConfig()}, nil
	}
	cfg, err := config.LoadFromPath(filepath.Join(dir, config.ConfigFileName))
	if err != nil {
		return nil, err
	}
	return &env{Dir: dir, Config: cfg}, nil
}

// rules loads --rules, or rules.yaml from the config directory, or the
// built-in defaults.
func (e *env) rules() (*rules.Config, error) {
	path := rulesPath
	if path == "" {
		if e.Dir == "" {
			return rules.Default(), nil
		}
		path = filepath.Join(e.Dir, rules.FileName)
	}
	cfg, err := rules.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("rules loaded", zap.String("path", path), zap.String("version", cfg.Version))
	return cfg, nil
}

// openStore opens the configured scenario store.
func (e *env) openStore() (*store.Store, error) {
	if e.Dir == "" {
		return nil, fmt.Errorf("asz not initialized: run 'asz init' first")
	}
	path := e.Config.DatabasePath(e.Dir)
	s, err := store.Open(e.Config.Storage.Backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debug("store opened", zap.String("backend", s.Backend()), zap.String("path", path))
	return s, nil
}

// format resolves --format against the configured default.
func (e *env) format() (output.Format, error) {
	f := outputFormat
	if f == "" {
		f = e.Config.Output.DefaultFormat
	}
	return output.ParseFormat(f)
}

// reportVersion is the version stamped into report metadata.
func (e *env) reportVersion() string {
	if e.Config.Report.Version != "" {
		return e.Config.Report.Version
	}
	return Version
}
