// Package rules holds the externally supplied configuration that governs
// classification, risk assessment and text generation.
//
// Rule tables are explicit ordered lists evaluated in declared order, so match
// and tie-break semantics do not depend on map iteration or score insertion order.
// Every field has a default (see Default); a rules file only needs to override
// what differs.
package rules

import (
	"fmt"
	"strings"

	"github.com/hargabyte/agentsizer/internal/scenario"
)

// Config is the complete rules configuration.
type Config struct {
	// Version tags the rule set; it is copied into report metadata.
	Version string `yaml:"version" json:"version"`

	// SizeBands are ordered ascending by Max and must not overlap.
	SizeBands []SizeBand `yaml:"size_bands" json:"size_bands"`

	// AgentTypes lists the agent archetypes in declared order.
	AgentTypes []AgentTypeInfo `yaml:"agent_types" json:"agent_types"`

	// ArchetypeRules map dimension conditions to agent types.
	// First match per agent type wins.
	ArchetypeRules []ArchetypeRule `yaml:"archetype_rules" json:"archetype_rules"`

	// RiskRules contribute a reason and a level when they match.
	RiskRules []RiskRule `yaml:"risk_rules" json:"risk_rules"`

	// ImpactLevels map the overall risk level to a governance impact level.
	ImpactLevels []ImpactLevel `yaml:"impact_levels" json:"impact_levels"`

	// GovernanceRules derive required controls and oversight checkpoints.
	GovernanceRules []GovernanceRule `yaml:"governance_rules" json:"governance_rules"`

	// Connectors is the ordered provider keyword table.
	Connectors []ConnectorRule `yaml:"connectors" json:"connectors"`

	// GenericConnector is used for systems no connector rule matches.
	GenericConnector ConnectorRule `yaml:"generic_connector" json:"generic_connector"`

	// Roadmap lists candidate initiatives for the value roadmap.
	Roadmap []Initiative `yaml:"roadmap" json:"roadmap"`

	// DefaultCosts fill zero fields of a scenario's cost assumptions.
	DefaultCosts scenario.CostAssumptions `yaml:"default_costs" json:"default_costs"`

	// DefaultBenefits replace a scenario's benefit assumptions when none were captured.
	DefaultBenefits scenario.BenefitAssumptions `yaml:"default_benefits" json:"default_benefits"`

	Delivery  DeliveryConfig  `yaml:"delivery" json:"delivery"`
	Templates TemplateConfig  `yaml:"templates" json:"templates"`
	Glossary  []GlossaryEntry `yaml:"glossary" json:"glossary"`
	Report    ReportConfig    `yaml:"report" json:"report"`
}

// Size is a coarse sizing bucket.
type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

// SizeBand is one threshold band of the size classification.
type SizeBand struct {
	Size Size `yaml:"size" json:"size"`

	// Max is the inclusive upper bound of the total score for this band.
	Max int `yaml:"max" json:"max"`

	// AgentMultiplier is the suggested instance count per non-optional agent type.
	AgentMultiplier int `yaml:"agent_multiplier" json:"agent_multiplier"`

	// Tracks is the number of parallel delivery tracks.
	Tracks int `yaml:"tracks" json:"tracks"`

	Notes []string `yaml:"notes" json:"notes"`
}

// AgentType is a category of recommended agent.
type AgentType string

const (
	AgentExperience AgentType = "Experience"
	AgentProcess    AgentType = "Process"
	AgentFunction   AgentType = "Function"
	AgentTask       AgentType = "Task"
	AgentControl    AgentType = "Control"
)

// Slug returns a lowercase identifier for the agent type.
func (a AgentType) Slug() string {
	return strings.ToLower(strings.ReplaceAll(string(a), " ", "_"))
}

// AgentTypeInfo describes an agent archetype.
type AgentTypeInfo struct {
	Type        AgentType `yaml:"type" json:"type"`
	Description string    `yaml:"description" json:"description"`
}

// Necessity grades how strongly an agent type is recommended.
type Necessity string

const (
	NecessityRequired    Necessity = "required"
	NecessityRecommended Necessity = "recommended"
	NecessityOptional    Necessity = "optional"
)

// ArchetypeRule recommends an agent type when its condition matches.
type ArchetypeRule struct {
	Condition `yaml:",inline"`
	AgentType AgentType `yaml:"agent_type" json:"agent_type"`
	Necessity Necessity `yaml:"necessity" json:"necessity"`
	Reason    string    `yaml:"reason" json:"reason"`
}

// RiskLevel is an ordinal risk level.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// Rank returns the ordinal of the level (LOW=1 < MODERATE=2 < HIGH=3).
// Unknown or empty levels rank 0.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskModerate:
		return 2
	case RiskHigh:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r is at or above other.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.Rank() >= other.Rank()
}

// RiskRule contributes Message and Level when its condition matches.
// An empty Op means "gte": the rule matches when the score reaches Value.
type RiskRule struct {
	Condition `yaml:",inline"`
	Level     RiskLevel `yaml:"level" json:"level"`
	Message   string    `yaml:"message" json:"message"`
}

// ImpactLevel maps a risk level to a governance impact label.
type ImpactLevel struct {
	Risk  RiskLevel `yaml:"risk" json:"risk"`
	Label string    `yaml:"label" json:"label"`
}

// GovernanceKind distinguishes controls from oversight checkpoints.
type GovernanceKind string

const (
	KindControl    GovernanceKind = "control"
	KindCheckpoint GovernanceKind = "checkpoint"
)

// GovernanceRule yields a control or checkpoint when it applies.
// A rule applies when its condition (if any) matches and the overall risk is at
// least MinRisk (if set). A rule with neither always applies.
type GovernanceRule struct {
	ID          string         `yaml:"id" json:"id"`
	Kind        GovernanceKind `yaml:"kind" json:"kind"`
	Condition   `yaml:",inline"`
	MinRisk     RiskLevel `yaml:"min_risk" json:"min_risk"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Owner       string    `yaml:"owner" json:"owner"`
	Stage       string    `yaml:"stage" json:"stage"`
}

// ConnectorRule classifies a system name by case-insensitive keyword match.
type ConnectorRule struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Category string   `yaml:"category" json:"category"`
	Auth     string   `yaml:"auth" json:"auth"`
	Notes    string   `yaml:"notes" json:"notes"`
}

// Horizon is the delivery horizon of a roadmap initiative.
type Horizon string

const (
	HorizonQuickWin         Horizon = "Quick Win"
	HorizonMediumTerm       Horizon = "Medium Term"
	HorizonTransformational Horizon = "Transformational"
)

// Rank orders horizons: Quick Win < Medium Term < Transformational.
// Unknown horizons sort last.
func (h Horizon) Rank() int {
	switch h {
	case HorizonQuickWin:
		return 1
	case HorizonMediumTerm:
		return 2
	case HorizonTransformational:
		return 3
	default:
		return 4
	}
}

// Initiative is a candidate value-roadmap item. It is selected when every gate
// passes and, if Sizes is non-empty, the size classification is listed.
type Initiative struct {
	ID          string         `yaml:"id" json:"id"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description" json:"description"`
	Horizon     Horizon        `yaml:"horizon" json:"horizon"`
	Gates       []MaturityGate `yaml:"gates" json:"gates"`
	Sizes       []Size         `yaml:"sizes" json:"sizes"`
}

// MaturityGate compares one maturity sub-score with a value.
type MaturityGate struct {
	Dimension scenario.MaturityDimension `yaml:"dimension" json:"dimension"`
	Op        Op                         `yaml:"op" json:"op"`
	Value     int                        `yaml:"value" json:"value"`
}

// String renders the gate, e.g. "Data maturity >= 2".
func (g MaturityGate) String() string {
	return fmt.Sprintf("%s maturity %s %d", g.Dimension.Label(), g.Op.Symbol(), g.Value)
}

// DeliveryConfig parameterizes the delivery plan.
type DeliveryConfig struct {
	SprintLengthWeeks   int           `yaml:"sprint_length_weeks" json:"sprint_length_weeks"`
	HoursPerWeek        float64       `yaml:"hours_per_week" json:"hours_per_week"`
	FoundationSprints   int           `yaml:"foundation_sprints" json:"foundation_sprints"`
	HardenSprints       int           `yaml:"harden_sprints" json:"harden_sprints"`
	HighRiskHardenExtra int           `yaml:"high_risk_harden_extra" json:"high_risk_harden_extra"`
	DefaultAgentSprints int           `yaml:"default_agent_sprints" json:"default_agent_sprints"`
	AgentSprints        []AgentSprint `yaml:"agent_sprints" json:"agent_sprints"`
	Roles               []Role        `yaml:"roles" json:"roles"`
}

// AgentSprint is the build duration of one agent of the given type.
type AgentSprint struct {
	AgentType AgentType `yaml:"agent_type" json:"agent_type"`
	Sprints   int       `yaml:"sprints" json:"sprints"`
}

// Role is a delivery team role. PerTrack roles scale headcount with the number
// of parallel tracks.
type Role struct {
	Name       string  `yaml:"name" json:"name"`
	Headcount  float64 `yaml:"headcount" json:"headcount"`
	PerTrack   bool    `yaml:"per_track" json:"per_track"`
	Allocation float64 `yaml:"allocation" json:"allocation"`
	HourlyRate float64 `yaml:"hourly_rate" json:"hourly_rate"`
}

// TemplateConfig holds the text templates used by the generators.
// Templates use text/template syntax with the scenario metadata as data.
type TemplateConfig struct {
	Blueprints []BlueprintTemplate `yaml:"blueprints" json:"blueprints"`
	Topics     []TopicTemplate     `yaml:"topics" json:"topics"`
	Prompt     string              `yaml:"prompt" json:"prompt"`
	Maturity   []MaturityTemplate  `yaml:"maturity" json:"maturity"`
}

// BlueprintTemplate describes one agent type's blueprint.
type BlueprintTemplate struct {
	AgentType    AgentType `yaml:"agent_type" json:"agent_type"`
	Name         string    `yaml:"name" json:"name"`
	Purpose      string    `yaml:"purpose" json:"purpose"`
	Instructions string    `yaml:"instructions" json:"instructions"`
	Knowledge    []string  `yaml:"knowledge" json:"knowledge"`
	Actions      []string  `yaml:"actions" json:"actions"`
	Guardrails   []string  `yaml:"guardrails" json:"guardrails"`
}

// TopicTemplate describes one conversational topic of an agent type.
type TopicTemplate struct {
	AgentType AgentType `yaml:"agent_type" json:"agent_type"`
	Name      string    `yaml:"name" json:"name"`
	Triggers  []string  `yaml:"triggers" json:"triggers"`
	Steps     []string  `yaml:"steps" json:"steps"`
}

// MaturityTemplate holds the recommendation text per score tier.
type MaturityTemplate struct {
	Dimension scenario.MaturityDimension `yaml:"dimension" json:"dimension"`
	Low       string                     `yaml:"low" json:"low"`
	Medium    string                     `yaml:"medium" json:"medium"`
	High      string                     `yaml:"high" json:"high"`
}

// GlossaryEntry is one term of the report glossary.
type GlossaryEntry struct {
	Term       string `yaml:"term" json:"term"`
	Definition string `yaml:"definition" json:"definition"`
}

// ReportConfig controls report assembly.
type ReportConfig struct {
	// Disabled lists report sections that are never generated.
	Disabled []string `yaml:"disabled" json:"disabled"`
}

// IsDisabled reports whether the named section is disabled.
func (r ReportConfig) IsDisabled(section string) bool {
	for _, d := range r.Disabled {
		if strings.EqualFold(strings.TrimSpace(d), section) {
			return true
		}
	}
	return false
}

// Bands returns the configured size bands, or the default bands when none are set.
func (c *Config) Bands() []SizeBand {
	if len(c.SizeBands) == 0 {
		return defaultSizeBands()
	}
	return c.SizeBands
}

// Agents returns the configured agent types, or the defaults when none are set.
func (c *Config) Agents() []AgentTypeInfo {
	if len(c.AgentTypes) == 0 {
		return defaultAgentTypes()
	}
	return c.AgentTypes
}

// Generic returns the fallback connector, or the built-in HTTP connector when unset.
func (c *Config) Generic() ConnectorRule {
	if c.GenericConnector.ID == "" {
		return defaultGenericConnector()
	}
	return c.GenericConnector
}

// ImpactFor returns the impact label for a risk level.
func (c *Config) ImpactFor(level RiskLevel) string {
	table := c.ImpactLevels
	if len(table) == 0 {
		table = defaultImpactLevels()
	}
	for _, il := range table {
		if il.Risk == level {
			return il.Label
		}
	}
	return "Unrated"
}

// BlueprintFor returns the blueprint template for an agent type.
func (c *Config) BlueprintFor(t AgentType) (BlueprintTemplate, bool) {
	for _, bt := range c.Templates.Blueprints {
		if bt.AgentType == t {
			return bt, true
		}
	}
	return BlueprintTemplate{}, false
}

// TopicsFor returns the topic templates for an agent type in declared order.
func (c *Config) TopicsFor(t AgentType) []TopicTemplate {
	var out []TopicTemplate
	for _, tt := range c.Templates.Topics {
		if tt.AgentType == t {
			out = append(out, tt)
		}
	}
	return out
}

// MaturityTemplateFor returns the recommendation texts for a maturity dimension.
func (c *Config) MaturityTemplateFor(d scenario.MaturityDimension) (MaturityTemplate, bool) {
	for _, mt := range c.Templates.Maturity {
		if mt.Dimension == d {
			return mt, true
		}
	}
	return MaturityTemplate{}, false
}

// SprintsFor returns the build duration in sprints of one agent of type t.
func (c *Config) SprintsFor(t AgentType) int {
	for _, as := range c.Delivery.AgentSprints {
		if as.AgentType == t && as.Sprints > 0 {
			return as.Sprints
		}
	}
	if c.Delivery.DefaultAgentSprints > 0 {
		return c.Delivery.DefaultAgentSprints
	}
	return 1
}

// Provider supplies the rules configuration to the report assembler.
type Provider interface {
	RulesConfig() *Config
}

// Static is a Provider that always returns the same configuration.
type Static struct {
	Config *Config
}

// RulesConfig returns the wrapped configuration completed with the defaults.
func (s Static) RulesConfig() *Config {
	return Complete(s.Config)
}
