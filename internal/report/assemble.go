package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hargabyte/agentsizer/internal/generate"
	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

// ScenarioGetter loads a scenario by ID. Implementations return an error
// wrapping scenario.ErrNotFound when the ID does not exist.
type ScenarioGetter interface {
	GetScenario(ctx context.Context, id string) (scenario.Scenario, error)
}

// BuildOptions stamp the report metadata.
type BuildOptions struct {
	Now     time.Time
	Version string
}

// Assembler builds reports for stored scenarios.
type Assembler struct {
	Scenarios ScenarioGetter
	Rules     rules.Provider

	// Clock defaults to time.Now.
	Clock   func() time.Time
	Version string
	Logger  *zap.Logger
}

// Assemble loads the scenario and builds its report. ok is false, with a nil
// error, when the scenario does not exist.
func (a *Assembler) Assemble(ctx context.Context, id string) (*Model, bool, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := a.Scenarios.GetScenario(ctx, id)
	if errors.Is(err, scenario.ErrNotFound) {
		logger.Debug("scenario not found", zap.String("id", id))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading scenario %s: %w", id, err)
	}

	var cfg *rules.Config
	if a.Rules != nil {
		cfg = a.Rules.RulesConfig()
	}

	clock := a.Clock
	if clock == nil {
		clock = time.Now
	}

	m, err := Build(s, cfg, BuildOptions{Now: clock(), Version: a.Version})
	if err != nil {
		return nil, false, fmt.Errorf("building report for %s: %w", id, err)
	}
	logger.Debug("report assembled",
		zap.String("id", id),
		zap.String("hash", m.Meta.ScenarioHash),
		zap.String("size", string(m.Sizing.Size)),
		zap.String("risk", string(m.Risk.Level)),
		zap.Int("sections", len(m.Present())),
	)
	return m, true, nil
}

// Build runs the pipeline over a snapshot of s: scoring, maturity and then
// every enabled generator. Quick mode skips the financial, delivery and
// evaluation sections; sections disabled in the rules are skipped in any mode.
// Build fails only when the scenario has no content hash.
func Build(s scenario.Scenario, cfg *rules.Config, opts BuildOptions) (*Model, error) {
	cfg = rules.Complete(cfg)
	s = s.Clone()
	hash, err := scenario.Hash(s)
	if err != nil {
		return nil, err
	}
	in := generate.NewInput(s, cfg)
	quick := s.EffectiveMode() == scenario.ModeQuick

	m := &Model{
		Meta: Meta{
			GeneratedAt:  opts.Now.UTC(),
			Version:      opts.Version,
			ScenarioHash: hash,
			RulesVersion: cfg.Version,
		},
		Scenario: s,
		Sizing:   in.Sizing,
		Risk:     in.Risk,
		Glossary: append([]rules.GlossaryEntry{}, cfg.Glossary...),
	}

	enabled := func(sec Section) bool {
		if quick && fullOnly[sec] {
			return false
		}
		return !cfg.Report.IsDisabled(string(sec))
	}

	if enabled(SectionMaturity) && in.Maturity != nil {
		m.Maturity = in.Maturity
	}
	if enabled(SectionDiagrams) {
		m.Diagrams = generate.BuildDiagrams(in)
	}
	if enabled(SectionBlueprints) {
		m.Blueprints = generate.BuildBlueprints(in)
	}
	if enabled(SectionTopics) {
		m.Topics = generate.BuildTopics(in)
	}
	if enabled(SectionConnectors) {
		m.Connectors = generate.BuildConnectors(in)
	}
	if enabled(SectionGovernance) {
		m.Governance = generate.BuildGovernance(in)
	}
	if enabled(SectionCosts) {
		m.Costs = generate.BuildCosts(in)
	}
	if enabled(SectionROI) {
		m.ROI = generate.BuildROI(in)
	}
	if enabled(SectionDelivery) {
		m.Delivery = generate.BuildDelivery(in)
	}
	if enabled(SectionRoadmap) {
		m.Roadmap = generate.BuildRoadmap(in)
	}
	if enabled(SectionPrompts) {
		m.Prompts = generate.BuildPrompts(in)
	}
	if enabled(SectionTestPlan) {
		m.TestPlan = generate.BuildTestPlan(in)
	}
	if enabled(SectionDatasets) {
		m.Datasets = generate.BuildDatasets(in)
	}

	return m, nil
}
