package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
	"github.com/hargabyte/agentsizer/internal/scoring"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Classify a scenario into a size band, agent mix and risk level",
	Long: `Classify runs the scoring engine only: the total score, size band, recommended
agent archetypes and the overall risk level with every contributing reason.

The scenario is read from a file, or from the store with --id. Target scores are
used; a scenario without any target score is classified on its current scores.`,
	Example: `  asz classify claims.yaml
  asz classify --id 3f0c9a4e-... --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

var classifyID string

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringVar(&classifyID, "id", "", "Classify a stored scenario instead of a file")
}

// Classification is the structured classify output.
type Classification struct {
	ID     string               `json:"id" yaml:"id"`
	Name   string               `json:"name" yaml:"name"`
	Sizing scoring.SizingResult `json:"sizing" yaml:"sizing"`
	Risk   scoring.RiskProfile  `json:"risk" yaml:"risk"`
	Issues []string             `json:"issues,omitempty" yaml:"issues,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (classifyID == "") {
		return fmt.Errorf("specify either a scenario file or --id")
	}

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

	var sc scenario.Scenario
	if classifyID != "" {
		s, err := e.openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		if sc, err = s.GetScenario(cmd.Context(), classifyID); err != nil {
			return err
		}
	} else if sc, err = loadScenarioFile(args[0]); err != nil {
		return err
	}

	c := classify(sc, cfg)
	if format.IsStructured() {
		return writeStructured(cmd.OutOrStdout(), format, c)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderClassification(c))
	return nil
}

func classify(sc scenario.Scenario, cfg *rules.Config) Classification {
	scores := sc.SizingScores()
	c := Classification{
		ID:     sc.ID,
		Name:   sc.Name,
		Sizing: scoring.Classify(scores, cfg),
		Risk:   scoring.AssessRisk(scores, cfg),
	}
	for _, issue := range sc.Validate() {
		c.Issues = append(c.Issues, issue.String())
	}
	return c
}

var (
	classifyTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	classifyLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	classifyBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	riskColors = map[rules.RiskLevel]lipgloss.Color{
		rules.RiskLow:      lipgloss.Color("#4CAF50"),
		rules.RiskModerate: lipgloss.Color("#FFB300"),
		rules.RiskHigh:     lipgloss.Color("#FF6B6B"),
	}
)

// renderClassification renders the terminal summary box.
func renderClassification(c Classification) string {
	title := c.Name
	if title == "" {
		title = c.ID
	}

	risk := lipgloss.NewStyle().Bold(true).
		Foreground(riskColors[c.Risk.Level]).
		Render(string(c.Risk.Level))

	lines := []string{
		classifyTitle.Render(title),
		"",
		fmt.Sprintf("%s %s (total %d over %d dimensions, %d track(s))",
			classifyLabel.Render("Size:"), c.Sizing.Size, c.Sizing.TotalScore,
			c.Sizing.ScoredDimensions, c.Sizing.Tracks),
		fmt.Sprintf("%s %s", classifyLabel.Render("Risk:"), risk),
	}

	var agents []string
	for _, need := range c.Sizing.NonOptional() {
		agents = append(agents, fmt.Sprintf("  %s x%d (%s)", need.AgentType,
			c.Sizing.CountFor(need.AgentType), need.Necessity))
	}
	if len(agents) == 0 {
		agents = []string{"  none"}
	}
	lines = append(lines, classifyLabel.Render("Agents:"))
	lines = append(lines, agents...)

	if len(c.Risk.Reasons) > 0 {
		lines = append(lines, classifyLabel.Render("Risk reasons:"))
		for _, r := range c.Risk.Reasons {
			lines = append(lines, "  - "+r)
		}
	}
	if len(c.Issues) > 0 {
		lines = append(lines, classifyLabel.Render("Issues:"))
		for _, issue := range c.Issues {
			lines = append(lines, "  ! "+issue)
		}
	}

	return classifyBox.Render(strings.Join(lines, "\n"))
}
