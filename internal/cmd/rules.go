package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hargabyte/agentsizer/internal/output"
	"github.com/hargabyte/agentsizer/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the rules configuration",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rules (defaults merged with overrides)",
	Example: `  asz rules show
  asz rules show --rules custom.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: runRulesShow,
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a rules file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesCheck,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesShowCmd, rulesCheckCmd)
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	format, err := e.format()
	if err != nil {
		return err
	}
	cfg, err := e.rules()
	if err != nil {
		return err
	}
	// Rules are a YAML document; markdown falls back to YAML.
	if format == output.FormatMarkdown {
		format = output.FormatYAML
	}
	return writeStructured(cmd.OutOrStdout(), format, cfg)
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	cfg, err := rules.LoadFromPath(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (version %s, %d size bands, %d archetype rules, %d risk rules)\n",
		args[0], cfg.Version, len(cfg.SizeBands), len(cfg.ArchetypeRules), len(cfg.RiskRules))
	return nil
}
