// Package scenario defines the assessment input consumed by the report pipeline.
//
// A Scenario is one complete assessment instance: dimension scores (current and
// target), maturity scores, the integration systems in scope, free-text metadata and
// the cost/benefit assumptions used for financial projections. Scenarios are edited
// during intake and handed to the pipeline by value; the pipeline never mutates them.
package scenario

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by scenario sources when no scenario has the requested ID.
var ErrNotFound = errors.New("scenario not found")

// Mode selects how much of the report is generated for a scenario.
type Mode string

const (
	// ModeFull generates every sub-model.
	ModeFull Mode = "full"

	// ModeQuick generates the architecture-oriented sub-models only
	// (diagrams, blueprints, topics, connectors, governance).
	ModeQuick Mode = "quick"
)

// ParseMode parses a mode string. Empty input yields ModeFull.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return ModeFull, true
	case "quick":
		return ModeQuick, true
	default:
		return "", false
	}
}

// Scores maps dimension identifiers to a score of 1-3.
// A missing key means the dimension is unscored.
type Scores map[Dimension]int

// Get returns the score for d and whether it is present and within 1-3.
func (s Scores) Get(d Dimension) (int, bool) {
	v, ok := s[d]
	if !ok || !ValidScore(v) {
		return 0, false
	}
	return v, true
}

// MaturityScores maps maturity dimensions to a score of 1-3.
type MaturityScores map[MaturityDimension]int

// Metadata is the free-text context captured during intake.
type Metadata struct {
	Organization string `yaml:"organization" json:"organization"`
	Industry     string `yaml:"industry" json:"industry"`
	Sponsor      string `yaml:"sponsor" json:"sponsor"`
	Objective    string `yaml:"objective" json:"objective"`
	Region       string `yaml:"region" json:"region"`
	Notes        string `yaml:"notes" json:"notes"`
}

// CostAssumptions drive the cost breakdown. Zero fields fall back to the
// defaults in the rules configuration.
type CostAssumptions struct {
	Currency                string  `yaml:"currency" json:"currency"`
	Users                   int     `yaml:"users" json:"users"`
	LicensePerUserMonthly   float64 `yaml:"license_per_user_monthly" json:"license_per_user_monthly"`
	TenantLicenseMonthly    float64 `yaml:"tenant_license_monthly" json:"tenant_license_monthly"`
	MessagesPerUserMonthly  float64 `yaml:"messages_per_user_monthly" json:"messages_per_user_monthly"`
	IncludedMessagesMonthly float64 `yaml:"included_messages_monthly" json:"included_messages_monthly"`
	OverageRatePerMessage   float64 `yaml:"overage_rate_per_message" json:"overage_rate_per_message"`
	ComputePerAgentMonthly  float64 `yaml:"compute_per_agent_monthly" json:"compute_per_agent_monthly"`
	StorageGB               float64 `yaml:"storage_gb" json:"storage_gb"`
	StorageRatePerGBMonthly float64 `yaml:"storage_rate_per_gb_monthly" json:"storage_rate_per_gb_monthly"`
	BuildCostPerAgent       float64 `yaml:"build_cost_per_agent" json:"build_cost_per_agent"`
	SetupOneTime            float64 `yaml:"setup_one_time" json:"setup_one_time"`
}

// BenefitAssumptions drive the ROI projection. A zero field disables the
// benefit component that depends on it.
type BenefitAssumptions struct {
	TasksPerMonth      float64 `yaml:"tasks_per_month" json:"tasks_per_month"`
	MinutesPerTask     float64 `yaml:"minutes_per_task" json:"minutes_per_task"`
	AutomationRate     float64 `yaml:"automation_rate" json:"automation_rate"`
	HourlyRate         float64 `yaml:"hourly_rate" json:"hourly_rate"`
	ErrorsPerMonth     float64 `yaml:"errors_per_month" json:"errors_per_month"`
	CostPerError       float64 `yaml:"cost_per_error" json:"cost_per_error"`
	ErrorReductionRate float64 `yaml:"error_reduction_rate" json:"error_reduction_rate"`
	AnnualRevenueBase  float64 `yaml:"annual_revenue_base" json:"annual_revenue_base"`
	RevenueUpliftRate  float64 `yaml:"revenue_uplift_rate" json:"revenue_uplift_rate"`
}

// IsZero reports whether no benefit assumption has been captured.
func (b BenefitAssumptions) IsZero() bool {
	return b == BenefitAssumptions{}
}

// Scenario is one assessment instance.
type Scenario struct {
	ID             string               `yaml:"id" json:"id"`
	Name           string               `yaml:"name" json:"name"`
	Mode           Mode                 `yaml:"mode" json:"mode"`
	CurrentScores  Scores               `yaml:"current_scores" json:"current_scores"`
	TargetScores   Scores               `yaml:"target_scores" json:"target_scores"`
	MaturityScores MaturityScores       `yaml:"maturity_scores" json:"maturity_scores"`
	Systems        []string             `yaml:"systems" json:"systems"`
	Metadata       Metadata             `yaml:"metadata" json:"metadata"`
	Comments       map[Dimension]string `yaml:"comments" json:"comments"`
	Costs          CostAssumptions      `yaml:"costs" json:"costs"`
	Benefits       BenefitAssumptions   `yaml:"benefits" json:"benefits"`
}

// EffectiveMode returns the scenario mode, treating an empty value as ModeFull.
func (s *Scenario) EffectiveMode() Mode {
	if s.Mode == ModeQuick {
		return ModeQuick
	}
	return ModeFull
}

// SizingScores returns the scores used for classification: the target scores,
// or the current scores when no target score has been captured yet.
func (s *Scenario) SizingScores() Scores {
	if len(s.TargetScores) > 0 {
		return s.TargetScores
	}
	return s.CurrentScores
}

// Clone returns a deep copy of the scenario. Nil maps and slices stay nil so the
// copy serializes identically to the original.
func (s Scenario) Clone() Scenario {
	out := s
	out.CurrentScores = cloneMap(s.CurrentScores)
	out.TargetScores = cloneMap(s.TargetScores)
	out.MaturityScores = cloneMap(s.MaturityScores)
	out.Comments = cloneMap(s.Comments)
	if s.Systems != nil {
		out.Systems = append(make([]string, 0, len(s.Systems)), s.Systems...)
	}
	return out
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
