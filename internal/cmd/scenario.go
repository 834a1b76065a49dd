package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hargabyte/agentsizer/internal/output"
	"github.com/hargabyte/agentsizer/internal/scenario"
	"github.com/hargabyte/agentsizer/internal/store"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage stored scenarios",
	Long: `Create, import, list, show and delete the scenarios kept in the .asz store.

Scenarios are YAML or JSON documents with dimension scores, maturity scores,
systems in scope and cost/benefit assumptions. A scenario without an id is
assigned one on import.`,
}

var scenarioNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty scenario",
	Example: `  asz scenario new --name "Claims intake" --org Contoso
  asz scenario new --name "Pilot" --mode quick`,
	Args: cobra.NoArgs,
	RunE: runScenarioNew,
}

var scenarioImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import scenarios from YAML or JSON files",
	Example: `  asz scenario import claims.yaml
  asz scenario import scenarios/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScenarioImport,
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored scenarios",
	Args:  cobra.NoArgs,
	RunE:  runScenarioList,
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioShow,
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioDelete,
}

var scenarioHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "List committed versions of a scenario (dolt backend)",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioHistory,
}

var (
	newName string
	newOrg  string
	newMode string
)

func init() {
	rootCmd.AddCommand(scenarioCmd)
	scenarioCmd.AddCommand(scenarioNewCmd, scenarioImportCmd, scenarioListCmd,
		scenarioShowCmd, scenarioDeleteCmd, scenarioHistoryCmd)

	scenarioNewCmd.Flags().StringVar(&newName, "name", "", "Scenario name")
	scenarioNewCmd.Flags().StringVar(&newOrg, "org", "", "Organization")
	scenarioNewCmd.Flags().StringVar(&newMode, "mode", "full", "Report mode (full|quick)")
}

func runScenarioNew(cmd *cobra.Command, args []string) error {
	mode, ok := scenario.ParseMode(newMode)
	if !ok {
		return fmt.Errorf("invalid mode %q (expected full or quick)", newMode)
	}

	s, closeStore, err := openCommandStore()
	if err != nil {
		return err
	}
	defer closeStore()

	sc := scenario.Scenario{
		ID:       scenario.NewID(),
		Name:     newName,
		Mode:     mode,
		Metadata: scenario.Metadata{Organization: newOrg},
	}
	if err := s.SaveScenario(cmd.Context(), sc); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sc.ID)
	return nil
}

func runScenarioImport(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openCommandStore()
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()
	for _, path := range args {
		sc, err := scenario.LoadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if sc.ID == "" {
			sc.ID = scenario.NewID()
		}
		for _, issue := range sc.Validate() {
			logger.Warn("scenario issue", zap.String("file", path), zap.String("issue", issue.String()))
		}
		if err := s.SaveScenario(cmd.Context(), sc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(out, "Imported %s as %s\n", path, sc.ID)
	}
	return nil
}

func runScenarioList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	format, err := e.format()
	if err != nil {
		return err
	}
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	list, err := s.ListScenarios(cmd.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []store.Summary{}
	}

	if format.IsStructured() {
		return writeStructured(cmd.OutOrStdout(), format, list)
	}
	return writeScenarioTable(cmd.OutOrStdout(), list)
}

func writeScenarioTable(w io.Writer, list []store.Summary) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No scenarios. Create one with 'asz scenario new' or 'asz scenario import'.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMODE\tHASH\tUPDATED")
	for _, row := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Name, row.Mode, row.ContentHash, row.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runScenarioShow(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	format, err := e.format()
	if err != nil {
		return err
	}
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sc, err := s.GetScenario(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	// Scenarios are YAML documents; markdown falls back to YAML here.
	if format == output.FormatMarkdown {
		format = output.FormatYAML
	}
	return writeStructured(cmd.OutOrStdout(), format, sc)
}

func runScenarioDelete(cmd *cobra.Command, args []string) error {
	s, closeStore, err := openCommandStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := s.DeleteScenario(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runScenarioHistory(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	format, err := e.format()
	if err != nil {
		return err
	}
	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	revs, err := s.History(cmd.Context(), args[0])
	if errors.Is(err, store.ErrNotVersioned) {
		return fmt.Errorf("%w: set storage.backend to dolt to keep scenario history", err)
	}
	if err != nil {
		return err
	}

	if format.IsStructured() {
		return writeStructured(cmd.OutOrStdout(), format, revs)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMMIT\tDATE\tHASH\tNAME")
	for _, r := range revs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortCommit(r.Commit), r.CommittedAt.Format("2006-01-02 15:04"), r.ContentHash, r.Name)
	}
	return tw.Flush()
}

func shortCommit(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

// openCommandStore loads the environment and opens its store.
func openCommandStore() (*store.Store, func(), error) {
	e, err := loadEnv()
	if err != nil {
		return nil, nil, err
	}
	s, err := e.openStore()
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, format output.Format, v interface{}) error {
	f, err := output.GetFormatter(format)
	if err != nil {
		return err
	}
	return f.FormatToWriter(w, v)
}

// loadScenarioFile reads a scenario that is reported on without being stored.
// An ID-less scenario gets an ID derived from its content.
func loadScenarioFile(path string) (scenario.Scenario, error) {
	sc, err := scenario.LoadFile(path)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return scenario.WithDerivedID(sc)
}
