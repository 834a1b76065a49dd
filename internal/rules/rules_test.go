package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hargabyte/agentsizer/internal/scenario"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected default rules to validate, got %v", err)
	}

	if len(cfg.SizeBands) != 3 {
		t.Errorf("expected 3 size bands, got %d", len(cfg.SizeBands))
	}

	if len(cfg.AgentTypes) != 5 {
		t.Errorf("expected 5 agent types, got %d", len(cfg.AgentTypes))
	}

	if cfg.Generic().ID != "http" {
		t.Errorf("expected generic connector http, got %s", cfg.Generic().ID)
	}

	for _, at := range cfg.AgentTypes {
		if _, ok := cfg.BlueprintFor(at.Type); !ok {
			t.Errorf("expected a default blueprint for %s", at.Type)
		}
	}

	for _, d := range scenario.MaturityDimensions {
		if _, ok := cfg.MaturityTemplateFor(d); !ok {
			t.Errorf("expected a default maturity template for %s", d)
		}
	}
}

func TestOp_Compare(t *testing.T) {
	tests := []struct {
		op    Op
		score int
		value int
		want  bool
	}{
		{"", 3, 2, true},
		{OpGTE, 2, 2, true},
		{OpGTE, 1, 2, false},
		{OpLTE, 1, 2, true},
		{OpLTE, 3, 2, false},
		{OpEQ, 2, 2, true},
		{OpEQ, 3, 2, false},
	}

	for _, tt := range tests {
		if got := tt.op.Compare(tt.score, tt.value); got != tt.want {
			t.Errorf("%q.Compare(%d, %d) = %v, want %v", tt.op, tt.score, tt.value, got, tt.want)
		}
	}
}

func TestCondition_Matches(t *testing.T) {
	c := Condition{Dimension: scenario.DimDataSensitivity, Op: OpGTE, Value: 3}

	if c.Matches(scenario.Scores{}) {
		t.Error("expected unscored dimension not to match")
	}
	if c.Matches(scenario.Scores{scenario.DimDataSensitivity: 9}) {
		t.Error("expected out-of-range score not to match")
	}
	if !c.Matches(scenario.Scores{scenario.DimDataSensitivity: 3}) {
		t.Error("expected score 3 to match gte 3")
	}
	if (Condition{}).Matches(scenario.Scores{scenario.DimDataSensitivity: 3}) {
		t.Error("expected empty condition never to match")
	}

	if got := c.String(); got != "data_sensitivity >= 3" {
		t.Errorf("expected \"data_sensitivity >= 3\", got %q", got)
	}
}

func TestMaturityGate_MissingScoreCountsAsOne(t *testing.T) {
	g := MaturityGate{Dimension: scenario.MatData, Op: OpLTE, Value: 1}
	if !g.Matches(nil) {
		t.Error("expected missing maturity score to count as 1")
	}

	g = MaturityGate{Dimension: scenario.MatData, Op: OpGTE, Value: 2}
	if g.Matches(scenario.MaturityScores{}) {
		t.Error("expected missing maturity score not to pass gte 2")
	}
}

func TestInitiative_HasSize(t *testing.T) {
	open := Initiative{}
	if !open.HasSize(SizeSmall) {
		t.Error("expected empty size list to accept any size")
	}

	large := Initiative{Sizes: []Size{SizeLarge}}
	if large.HasSize(SizeSmall) {
		t.Error("expected Small not to be accepted")
	}
	if !large.HasSize("large") {
		t.Error("expected size match to ignore case")
	}
}

func TestRiskLevel_Rank(t *testing.T) {
	if !RiskHigh.AtLeast(RiskModerate) {
		t.Error("expected HIGH >= MODERATE")
	}
	if RiskLow.AtLeast(RiskModerate) {
		t.Error("expected LOW < MODERATE")
	}
	if RiskLevel("SEVERE").Rank() != 0 {
		t.Error("expected unknown level to rank 0")
	}
}

func TestConfig_FallbacksOnEmptyTables(t *testing.T) {
	cfg := &Config{}

	if len(cfg.Bands()) == 0 {
		t.Error("expected default bands for empty config")
	}
	if len(cfg.Agents()) != 5 {
		t.Errorf("expected 5 default agent types, got %d", len(cfg.Agents()))
	}
	if got := cfg.ImpactFor(RiskHigh); got != "Significant" {
		t.Errorf("expected impact Significant, got %s", got)
	}
	if got := cfg.SprintsFor(AgentTask); got != 1 {
		t.Errorf("expected 1 sprint fallback, got %d", got)
	}
	if cfg.TopicsFor(AgentTask) != nil {
		t.Error("expected no topics for empty config")
	}
}

func TestConditionAndGateStrings(t *testing.T) {
	tests := []struct {
		op   Op
		cond string
		gate string
	}{
		{"", "user_reach >= 2", "Data maturity >= 2"},
		{OpGTE, "user_reach >= 2", "Data maturity >= 2"},
		{OpLTE, "user_reach <= 2", "Data maturity <= 2"},
		{OpEQ, "user_reach == 2", "Data maturity == 2"},
	}
	for _, tt := range tests {
		c := Condition{Dimension: scenario.DimUserReach, Op: tt.op, Value: 2}
		if got := c.String(); got != tt.cond {
			t.Errorf("Condition.String() = %q, want %q", got, tt.cond)
		}
		g := MaturityGate{Dimension: scenario.MatData, Op: tt.op, Value: 2}
		if got := g.String(); got != tt.gate {
			t.Errorf("MaturityGate.String() = %q, want %q", got, tt.gate)
		}
	}
}

func TestReportConfig_IsDisabled(t *testing.T) {
	r := ReportConfig{Disabled: []string{" ROI ", "datasets"}}

	if !r.IsDisabled("roi") {
		t.Error("expected roi to be disabled")
	}
	if !r.IsDisabled("datasets") {
		t.Error("expected datasets to be disabled")
	}
	if r.IsDisabled("costs") {
		t.Error("expected costs to be enabled")
	}
}

func TestMerge(t *testing.T) {
	loaded := &Config{
		Version: "acme-2",
		SizeBands: []SizeBand{
			{Size: SizeSmall, Max: 10, AgentMultiplier: 1, Tracks: 1},
			{Size: SizeLarge, Max: 24, AgentMultiplier: 3, Tracks: 3},
		},
		DefaultCosts: scenario.CostAssumptions{Currency: "EUR"},
		Delivery:     DeliveryConfig{SprintLengthWeeks: 3},
	}

	merged := Merge(loaded, Default())

	if merged.Version != "acme-2" {
		t.Errorf("expected version acme-2, got %s", merged.Version)
	}
	if len(merged.SizeBands) != 2 {
		t.Errorf("expected loaded size bands to replace defaults, got %d bands", len(merged.SizeBands))
	}
	if len(merged.RiskRules) != len(Default().RiskRules) {
		t.Errorf("expected default risk rules, got %d", len(merged.RiskRules))
	}
	if merged.DefaultCosts.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", merged.DefaultCosts.Currency)
	}
	if merged.DefaultCosts.Users != Default().DefaultCosts.Users {
		t.Errorf("expected default users, got %d", merged.DefaultCosts.Users)
	}
	if merged.Delivery.SprintLengthWeeks != 3 {
		t.Errorf("expected sprint length 3, got %d", merged.Delivery.SprintLengthWeeks)
	}
	if merged.Delivery.HoursPerWeek != Default().Delivery.HoursPerWeek {
		t.Errorf("expected default hours per week, got %f", merged.Delivery.HoursPerWeek)
	}
	if merged.Templates.Prompt == "" {
		t.Error("expected default prompt template")
	}
}

func TestComplete(t *testing.T) {
	def := Default()

	for name, cfg := range map[string]*Config{
		"nil":     Complete(nil),
		"empty":   Complete(&Config{}),
		"static":  Static{Config: &Config{}}.RulesConfig(),
		"default": Complete(def),
	} {
		t.Run(name, func(t *testing.T) {
			if len(cfg.Connectors) != len(def.Connectors) {
				t.Errorf("expected %d connectors, got %d", len(def.Connectors), len(cfg.Connectors))
			}
			if len(cfg.ArchetypeRules) != len(def.ArchetypeRules) {
				t.Errorf("expected %d archetype rules, got %d", len(def.ArchetypeRules), len(cfg.ArchetypeRules))
			}
			if len(cfg.RiskRules) != len(def.RiskRules) {
				t.Errorf("expected %d risk rules, got %d", len(def.RiskRules), len(cfg.RiskRules))
			}
			if len(cfg.GovernanceRules) != len(def.GovernanceRules) {
				t.Errorf("expected %d governance rules, got %d", len(def.GovernanceRules), len(cfg.GovernanceRules))
			}
			if len(cfg.Roadmap) != len(def.Roadmap) {
				t.Errorf("expected %d roadmap initiatives, got %d", len(def.Roadmap), len(cfg.Roadmap))
			}
			if cfg.DefaultCosts != def.DefaultCosts {
				t.Errorf("expected default costs, got %+v", cfg.DefaultCosts)
			}
			if err := Validate(cfg); err != nil {
				t.Errorf("expected completed rules to validate, got %v", err)
			}
		})
	}
}

func TestMerge_BenefitsReplacedWholesale(t *testing.T) {
	loaded := &Config{DefaultBenefits: scenario.BenefitAssumptions{TasksPerMonth: 10}}
	merged := Merge(loaded, Default())

	if merged.DefaultBenefits.TasksPerMonth != 10 {
		t.Errorf("expected tasks_per_month 10, got %f", merged.DefaultBenefits.TasksPerMonth)
	}
	if merged.DefaultBenefits.AutomationRate != 0 {
		t.Errorf("expected automation_rate to stay 0, got %f", merged.DefaultBenefits.AutomationRate)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"no bands", func(c *Config) { c.SizeBands = nil }, true},
		{"overlapping bands", func(c *Config) {
			c.SizeBands = []SizeBand{
				{Size: SizeSmall, Max: 12, Tracks: 1},
				{Size: SizeMedium, Max: 12, Tracks: 1},
			}
		}, true},
		{"zero tracks", func(c *Config) { c.SizeBands[0].Tracks = 0 }, true},
		{"bad op", func(c *Config) { c.RiskRules[0].Op = "gt" }, true},
		{"bad level", func(c *Config) { c.RiskRules[0].Level = "SEVERE" }, true},
		{"bad governance kind", func(c *Config) { c.GovernanceRules[0].Kind = "policy" }, true},
		{"bad min risk", func(c *Config) { c.GovernanceRules[0].MinRisk = "extreme" }, true},
		{"connector without keywords", func(c *Config) { c.Connectors[0].Keywords = nil }, true},
		{"bad horizon", func(c *Config) { c.Roadmap[0].Horizon = "Someday" }, true},
		{"bad sprint length", func(c *Config) { c.Delivery.SprintLengthWeeks = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := Validate(cfg)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidRules) {
				t.Errorf("expected ErrInvalidRules, got %v", err)
			}
		})
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFromPath(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("expected defaults for missing file, got %v", err)
	}
	if cfg.Version != DefaultVersion {
		t.Errorf("expected version %s, got %s", DefaultVersion, cfg.Version)
	}

	path := filepath.Join(dir, FileName)
	content := `
version: workshop-3
risk_rules:
  - dimension: user_reach
    op: gte
    value: 2
    level: HIGH
    message: public exposure
report:
  disabled: [datasets]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Version != "workshop-3" {
		t.Errorf("expected version workshop-3, got %s", cfg.Version)
	}
	if len(cfg.RiskRules) != 1 || cfg.RiskRules[0].Dimension != scenario.DimUserReach {
		t.Errorf("expected one user_reach risk rule, got %+v", cfg.RiskRules)
	}
	if !cfg.Report.IsDisabled("datasets") {
		t.Error("expected datasets disabled")
	}
	if len(cfg.Connectors) == 0 {
		t.Error("expected default connectors to be kept")
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("risk_rules:\n  - level: EXTREME\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFromPath(path)
	if !errors.Is(err, ErrInvalidRules) {
		t.Errorf("expected ErrInvalidRules, got %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Save(Default(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if len(cfg.GovernanceRules) != len(Default().GovernanceRules) {
		t.Errorf("expected %d governance rules, got %d", len(Default().GovernanceRules), len(cfg.GovernanceRules))
	}
	if cfg.GovernanceRules[3].Dimension != scenario.DimDataSensitivity {
		t.Errorf("expected inline condition to survive, got %q", cfg.GovernanceRules[3].Dimension)
	}
}
