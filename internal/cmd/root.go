// Package cmd contains all CLI commands for asz.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hargabyte/agentsizer/internal/logging"
)

var (
	// Version is the current version of asz
	Version = "0.1.0"

	// Global flags
	verbose      bool
	configPath   string
	rulesPath    string
	forAgents    bool
	outputFormat string

	// logger is built in PersistentPreRunE and synced after every command.
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "asz",
	Short: "Size AI agent solutions and generate assessment reports",
	Long: `asz turns a scored assessment scenario into a complete AI agent sizing report.

A scenario captures dimension scores (user reach, data sensitivity, autonomy and
so on), maturity scores, the systems in scope and cost/benefit assumptions. asz
classifies it into a size band, recommends agent archetypes, assesses risk and
derives the architecture, governance, cost, ROI, delivery and roadmap sections
of the report.

Output Format:
  Reports are Markdown by default. Use --format to switch to JSON or YAML.
  Use 'asz report --archive' for a zip bundle of every artifact.

Examples:
  asz init                               # Create .asz with config and rules
  asz scenario import claims.yaml        # Store a scenario
  asz classify claims.yaml               # Quick sizing summary
  asz report <id> --pretty               # Render the report in the terminal
  asz report <id> --archive report.zip   # Bundle all artifacts
  asz serve                              # MCP server for AI agents

See 'asz <command> --help' for command-specific options.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: .asz/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to rules file (default: .asz/rules.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format (markdown|json|yaml, default from config)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// setupLogger builds the process logger. The config file may raise the level;
// --verbose always wins.
func setupLogger(cmd *cobra.Command, args []string) error {
	level := ""
	if env, err := loadEnv(); err == nil {
		level = env.Config.Logging.Level
	}

	l, err := logging.New(level, verbose)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	out := map[string]interface{}{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	if cmd.Example != "" {
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
