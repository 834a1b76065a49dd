package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hargabyte/agentsizer/internal/config"
	"github.com/hargabyte/agentsizer/internal/rules"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .asz directory, config, rules and scenario store",
	Long: `Initialize the .asz directory in the current directory.

This writes config.yaml with the default settings, rules.yaml with the built-in
rule tables (edit it to tune thresholds and templates) and creates the scenario
store selected by --backend.`,
	Example: `  asz init                 # SQLite store in .asz/scenarios.db
  asz init --backend dolt  # Versioned Dolt store in .asz/dolt
  asz init --force         # Rewrite config and rules with defaults`,
	RunE: runInit,
}

var (
	initForce   bool
	initBackend string
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing config.yaml and rules.yaml")
	initCmd.Flags().StringVar(&initBackend, "backend", "sqlite", "Scenario store backend (sqlite|dolt)")
}

func runInit(cmd *cobra.Command, args []string) error {
	if !config.IsValidBackend(initBackend) {
		return fmt.Errorf("invalid backend %q (expected one of %v)", initBackend, config.ValidBackends)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dir, err := config.EnsureConfigDir(cwd)
	if err != nil {
		return err
	}
	configFile := filepath.Join(dir, config.ConfigFileName)
	rulesFile := filepath.Join(dir, rules.FileName)
	out := cmd.OutOrStdout()

	if _, err := os.Stat(configFile); err == nil && !initForce {
		relPath, _ := filepath.Rel(cwd, dir)
		fmt.Fprintf(out, "Already initialized at %s\n", relPath)
		return nil
	}

	if initForce {
		if err := os.Remove(configFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing existing config: %w", err)
		}
	}

	if _, err := config.SaveDefault(cwd); err != nil {
		return err
	}
	if initBackend != "sqlite" {
		cfg := config.DefaultConfig()
		cfg.Storage.Backend = initBackend
		if err := config.Save(cfg, configFile); err != nil {
			return err
		}
	}

	if err := rules.Save(rules.Default(), rulesFile); err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	relPath, _ := filepath.Rel(cwd, dir)
	fmt.Fprintf(out, "Initialized asz at %s (%s store)\n", relPath, s.Backend())
	return nil
}
