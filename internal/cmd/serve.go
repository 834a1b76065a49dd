package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hargabyte/agentsizer/internal/mcp"
	"github.com/hargabyte/agentsizer/internal/rules"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

AI agents can classify scenarios, list the store and fetch reports through MCP
tools instead of spawning CLI commands.

Available Tools:
  asz_classify        Size band, agent mix and risk for a stored or inline scenario
  asz_report          Full report as markdown, json or yaml
  asz_list_scenarios  Stored scenarios, most recent first`,
	Example: `  asz serve                              # All tools
  asz serve --tools classify,report      # Specific tools only
  asz serve --timeout 30m                # Exit after 30 minutes idle
  asz serve --list-tools                 # Show available tools`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveTools     string
	serveTimeout   string
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListTools {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available MCP tools:")
		for _, name := range mcp.AllTools {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return nil
	}

	timeout, err := parseServeTimeout(serveTimeout)
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	cfg, err := e.rules()
	if err != nil {
		return err
	}
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	server, err := mcp.New(s, rules.Static{Config: cfg}, mcp.Config{
		Tools:   parseToolList(serveTools),
		Timeout: timeout,
		Version: e.reportVersion(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	logger.Info("mcp server starting", zap.Strings("tools", server.ListTools()), zap.Duration("timeout", timeout))
	return server.ServeStdio()
}

// parseToolList expands short tool names: "classify" becomes "asz_classify".
func parseToolList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "asz_") {
			t = "asz_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseServeTimeout(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	return d, nil
}
