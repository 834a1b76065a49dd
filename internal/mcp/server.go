// Package mcp provides an MCP (Model Context Protocol) server for asz.
// This allows AI agents to classify scenarios and fetch sizing reports through
// MCP tools instead of CLI commands.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hargabyte/agentsizer/internal/output"
	"github.com/hargabyte/agentsizer/internal/render"
	"github.com/hargabyte/agentsizer/internal/report"
	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
	"github.com/hargabyte/agentsizer/internal/scoring"
	"github.com/hargabyte/agentsizer/internal/store"
)

// Scenarios is the scenario source the server reads from.
type Scenarios interface {
	report.ScenarioGetter
	ListScenarios(ctx context.Context) ([]store.Summary, error)
}

// Server wraps the MCP server with asz-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	scenarios    Scenarios
	rules        rules.Provider
	assembler    *report.Assembler
	logger       *zap.Logger
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
	Version string        // Stamped into report metadata
	Logger  *zap.Logger
}

// AllTools lists all available tools
var AllTools = []string{"asz_classify", "asz_report", "asz_list_scenarios"}

// New creates a new MCP server over the given scenario source and rules.
func New(scenarios Scenarios, provider rules.Provider, cfg Config) (*Server, error) {
	if scenarios == nil {
		return nil, fmt.Errorf("scenario source is required")
	}
	if provider == nil {
		provider = rules.Static{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	mcpServer := server.NewMCPServer(
		"asz",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer: mcpServer,
		scenarios: scenarios,
		rules:     provider,
		assembler: &report.Assembler{
			Scenarios: scenarios,
			Rules:     provider,
			Version:   version,
			Logger:    logger,
		},
		logger:       logger,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "asz_classify":
		s.mcpServer.AddTool(mcp.NewTool("asz_classify",
			mcp.WithDescription(toolSchemaRegistry["asz_classify"].Description),
			mcp.WithString("id",
				mcp.Description("ID of a stored scenario"),
			),
			mcp.WithString("scenario",
				mcp.Description("Inline scenario document (YAML or JSON), used when id is empty"),
			),
		), s.handle("asz_classify"))
	case "asz_report":
		s.mcpServer.AddTool(mcp.NewTool("asz_report",
			mcp.WithDescription(toolSchemaRegistry["asz_report"].Description),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("ID of a stored scenario"),
			),
			mcp.WithString("format",
				mcp.Description("Output format: markdown, json, yaml (default: markdown)"),
			),
		), s.handle("asz_report"))
	case "asz_list_scenarios":
		s.mcpServer.AddTool(mcp.NewTool("asz_list_scenarios",
			mcp.WithDescription(toolSchemaRegistry["asz_list_scenarios"].Description),
		), s.handle("asz_list_scenarios"))
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
	return nil
}

// handle adapts CallTool to an MCP tool handler.
func (s *Server) handle(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		result, err := s.CallTool(ctx, name, req.GetArguments())
		if err != nil {
			s.logger.Debug("tool call failed", zap.String("tool", name), zap.Error(err))
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			s.logger.Info("exiting after inactivity", zap.Duration("timeout", s.timeout))
			s.logger.Sync()
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the registered tool names, sorted.
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry mirrors the mcp.NewTool() definitions in registerTool.
var toolSchemaRegistry = map[string]ToolSchema{
	"asz_classify": {
		Name:        "asz_classify",
		Description: "Classify a scenario: size band, recommended agents and risk level.",
		Parameters: []ParameterSchema{
			{Name: "id", Type: "string", Description: "ID of a stored scenario"},
			{Name: "scenario", Type: "string", Description: "Inline scenario document (YAML or JSON), used when id is empty"},
		},
	},
	"asz_report": {
		Name:        "asz_report",
		Description: "Generate the full sizing report for a stored scenario.",
		Parameters: []ParameterSchema{
			{Name: "id", Type: "string", Description: "ID of a stored scenario", Required: true},
			{Name: "format", Type: "string", Description: "Output format: markdown, json, yaml (default: markdown)"},
		},
	},
	"asz_list_scenarios": {
		Name:        "asz_list_scenarios",
		Description: "List stored scenarios, most recently updated first.",
	},
}

// GetToolSchemas returns schemas for all registered tools, sorted by name.
func (s *Server) GetToolSchemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(s.tools))
	for _, name := range s.ListTools() {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the result text or an error.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	switch name {
	case "asz_classify":
		id, _ := args["id"].(string)
		inline, _ := args["scenario"].(string)
		return s.executeClassify(ctx, id, inline)

	case "asz_report":
		id, _ := args["id"].(string)
		if id == "" {
			return "", fmt.Errorf("id parameter is required")
		}
		format, _ := args["format"].(string)
		return s.executeReport(ctx, id, format)

	case "asz_list_scenarios":
		return s.executeList(ctx)

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// ClassifyOutput is the asz_classify result.
type ClassifyOutput struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Sizing scoring.SizingResult `json:"sizing"`
	Risk   scoring.RiskProfile  `json:"risk"`
	Issues []string            `json:"issues,omitempty"`
}

func (s *Server) executeClassify(ctx context.Context, id, inline string) (string, error) {
	var sc scenario.Scenario
	switch {
	case id != "":
		var err error
		sc, err = s.scenarios.GetScenario(ctx, id)
		if err != nil {
			return "", err
		}
	case inline != "":
		var err error
		sc, err = scenario.Parse([]byte(inline))
		if err != nil {
			return "", err
		}
		if sc, err = scenario.WithDerivedID(sc); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("either id or scenario is required")
	}

	cfg := s.rules.RulesConfig()
	scores := sc.SizingScores()
	out := ClassifyOutput{
		ID:     sc.ID,
		Name:   sc.Name,
		Sizing: scoring.Classify(scores, cfg),
		Risk:   scoring.AssessRisk(scores, cfg),
	}
	for _, issue := range sc.Validate() {
		out.Issues = append(out.Issues, issue.String())
	}
	return toJSON(out)
}

func (s *Server) executeReport(ctx context.Context, id, format string) (string, error) {
	f, err := output.ParseFormat(format)
	if err != nil {
		return "", err
	}

	m, ok, err := s.assembler.Assemble(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("scenario %s not found", id)
	}

	switch f {
	case output.FormatJSON:
		data, err := render.RenderJSON(m)
		return string(data), err
	case output.FormatYAML:
		data, err := render.RenderYAML(m)
		return string(data), err
	default:
		return string(render.RenderDocument(m)), nil
	}
}

func (s *Server) executeList(ctx context.Context) (string, error) {
	list, err := s.scenarios.ListScenarios(ctx)
	if err != nil {
		return "", err
	}
	if list == nil {
		list = []store.Summary{}
	}
	return toJSON(map[string]interface{}{
		"count":     len(list),
		"scenarios": list,
	})
}

func toJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(data), nil
}
