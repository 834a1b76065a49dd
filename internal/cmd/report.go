package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hargabyte/agentsizer/internal/config"
	"github.com/hargabyte/agentsizer/internal/output"
	"github.com/hargabyte/agentsizer/internal/render"
	"github.com/hargabyte/agentsizer/internal/report"
	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

var reportCmd = &cobra.Command{
	Use:   "report [id]",
	Short: "Generate the sizing report for a scenario",
	Long: `Generate the full assessment report for a stored scenario or a scenario file.

The report covers the executive summary, dimension scores, maturity, the
recommended agent architecture with blueprints and topics, diagrams, connectors,
governance, costs, ROI, roadmap, delivery plan and evaluation datasets. Quick
mode scenarios omit the financial, delivery and evaluation sections.

Outputs:
  --format markdown|json|yaml  Document or lossless serialization (default from config)
  --archive <path>             Zip bundle of every artifact
  --pdf <path>                 PDF via the configured conversion service
  --pretty                     Render Markdown for the terminal`,
	Example: `  asz report 3f0c9a4e-...
  asz report --file claims.yaml --pretty
  asz report --file claims.yaml -o report.md --watch
  asz report 3f0c9a4e-... --archive claims.zip`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var (
	reportFile    string
	reportOut     string
	reportArchive string
	reportPDF     string
	reportPretty  bool
	reportWatch   bool
	reportQuick   bool
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFile, "file", "", "Read the scenario from a YAML or JSON file")
	reportCmd.Flags().StringVarP(&reportOut, "output", "o", "", "Write the report to a file instead of stdout")
	reportCmd.Flags().StringVar(&reportArchive, "archive", "", "Write a zip archive of all artifacts")
	reportCmd.Flags().StringVar(&reportPDF, "pdf", "", "Write a PDF rendering (requires services.pdf_url)")
	reportCmd.Flags().BoolVar(&reportPretty, "pretty", false, "Render Markdown for the terminal")
	reportCmd.Flags().BoolVar(&reportWatch, "watch", false, "Regenerate when the scenario file changes (requires --file)")
	reportCmd.Flags().BoolVar(&reportQuick, "quick", false, "Force quick mode")
}

// reportJob carries everything one report generation needs.
type reportJob struct {
	env    *env
	rules  *rules.Config
	format output.Format
}

func runReport(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (reportFile == "") {
		return fmt.Errorf("specify either a scenario id or --file")
	}
	if reportWatch && reportFile == "" {
		return fmt.Errorf("--watch requires --file")
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
	job := &reportJob{env: e, rules: cfg, format: format}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(args) == 1 {
		m, err := job.assembleStored(ctx, args[0])
		if err != nil {
			return err
		}
		return job.emit(ctx, cmd, m)
	}

	if err := job.fromFile(ctx, cmd); err != nil {
		return err
	}
	if !reportWatch {
		return nil
	}
	return watchFile(ctx, reportFile, func() {
		if err := job.fromFile(ctx, cmd); err != nil {
			logger.Error("report regeneration failed", zap.Error(err))
		}
	})
}

func (j *reportJob) assembleStored(ctx context.Context, id string) (*report.Model, error) {
	s, err := j.env.openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	a := &report.Assembler{
		Scenarios: s,
		Rules:     rules.Static{Config: j.rules},
		Version:   j.env.reportVersion(),
		Logger:    logger,
	}
	m, ok, err := a.Assemble(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("scenario %s not found", id)
	}
	if reportQuick && m.Scenario.EffectiveMode() != scenario.ModeQuick {
		return j.build(m.Scenario)
	}
	return m, nil
}

func (j *reportJob) fromFile(ctx context.Context, cmd *cobra.Command) error {
	sc, err := loadScenarioFile(reportFile)
	if err != nil {
		return err
	}
	for _, issue := range sc.Validate() {
		logger.Warn("scenario issue", zap.String("file", reportFile), zap.String("issue", issue.String()))
	}
	m, err := j.build(sc)
	if err != nil {
		return err
	}
	return j.emit(ctx, cmd, m)
}

func (j *reportJob) build(sc scenario.Scenario) (*report.Model, error) {
	if reportQuick {
		sc.Mode = scenario.ModeQuick
	}
	return report.Build(sc, j.rules, report.BuildOptions{
		Now:     time.Now(),
		Version: j.env.reportVersion(),
	})
}

// emit writes every requested output for m.
func (j *reportJob) emit(ctx context.Context, cmd *cobra.Command, m *report.Model) error {
	services := j.env.Config.Services
	timeout := j.env.Config.ServiceTimeout()

	if reportArchive != "" {
		opts := render.ArchiveOptions{Logger: logger}
		if services.DiagramURL != "" {
			opts.Imager = render.NewKrokiImager(services.DiagramURL, timeout)
		}
		data, err := render.BuildArchive(ctx, m, opts)
		if err != nil {
			return err
		}
		if err := writeFile(reportArchive, data); err != nil {
			return err
		}
		logger.Info("archive written", zap.String("path", reportArchive), zap.Int("bytes", len(data)))
	}

	if reportPDF != "" {
		if services.PDFURL == "" {
			return fmt.Errorf("--pdf requires services.pdf_url in %s", config.ConfigFileName)
		}
		data, err := render.RenderPDF(ctx, m, render.NewHTTPPDFConverter(services.PDFURL, timeout))
		if err != nil {
			return err
		}
		if err := writeFile(reportPDF, data); err != nil {
			return err
		}
		logger.Info("pdf written", zap.String("path", reportPDF), zap.Int("bytes", len(data)))
	}

	// Archive and PDF runs only print the document when asked to.
	if (reportArchive != "" || reportPDF != "") && reportOut == "" && !reportPretty {
		return nil
	}

	data, err := renderFormat(m, j.format)
	if err != nil {
		return err
	}
	if reportPretty && j.format == output.FormatMarkdown && reportOut == "" {
		data, err = prettyMarkdown(data)
		if err != nil {
			return err
		}
	}

	if reportOut != "" {
		if err := writeFile(reportOut, data); err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", reportOut), zap.String("format", j.format.String()))
		return nil
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// renderFormat renders m in the given output format.
func renderFormat(m *report.Model, format output.Format) ([]byte, error) {
	switch format {
	case output.FormatJSON:
		return render.RenderJSON(m)
	case output.FormatYAML:
		return render.RenderYAML(m)
	default:
		return render.RenderDocument(m), nil
	}
}

func prettyMarkdown(md []byte) ([]byte, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := r.RenderBytes(md)
	if err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 300 * time.Millisecond

// watchFile calls onChange after path is written, until ctx is cancelled.
// The parent directory is watched so editors that replace the file on save
// keep triggering events.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching scenario file", zap.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("scenario file changed", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
