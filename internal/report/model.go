// Package report assembles the immutable report model from a scenario.
//
// A Model is a complete snapshot: every renderer consumes only the Model, so
// documents, serializations and archives built from the same Model agree with
// one another. Optional sections are pointers: nil means the section was not
// generated, non-nil means it is fully populated.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/hargabyte/agentsizer/internal/generate"
	"github.com/hargabyte/agentsizer/internal/maturity"
	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
	"github.com/hargabyte/agentsizer/internal/scoring"
)

// Section names the optional parts of a report.
type Section string

const (
	SectionMaturity   Section = "maturity"
	SectionDiagrams   Section = "diagrams"
	SectionBlueprints Section = "blueprints"
	SectionTopics     Section = "topics"
	SectionConnectors Section = "connectors"
	SectionGovernance Section = "governance"
	SectionCosts      Section = "costs"
	SectionROI        Section = "roi"
	SectionDelivery   Section = "delivery"
	SectionRoadmap    Section = "roadmap"
	SectionPrompts    Section = "prompts"
	SectionTestPlan   Section = "test_plan"
	SectionDatasets   Section = "datasets"
)

// Sections lists every optional section in report order.
var Sections = []Section{
	SectionMaturity,
	SectionDiagrams,
	SectionBlueprints,
	SectionTopics,
	SectionConnectors,
	SectionGovernance,
	SectionCosts,
	SectionROI,
	SectionDelivery,
	SectionRoadmap,
	SectionPrompts,
	SectionTestPlan,
	SectionDatasets,
}

// fullOnly are the sections generated only in full mode.
var fullOnly = map[Section]bool{
	SectionMaturity: true,
	SectionCosts:    true,
	SectionROI:      true,
	SectionDelivery: true,
	SectionRoadmap:  true,
	SectionPrompts:  true,
	SectionTestPlan: true,
	SectionDatasets: true,
}

// ParseSection parses a section name.
func ParseSection(s string) (Section, error) {
	name := Section(strings.ToLower(strings.TrimSpace(s)))
	for _, sec := range Sections {
		if sec == name {
			return sec, nil
		}
	}
	return "", fmt.Errorf("invalid report section: %q", s)
}

// Meta identifies how and from what a report was produced.
type Meta struct {
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`

	// Version is the tool version that produced the report.
	Version string `yaml:"version" json:"version"`

	// ScenarioHash is the content hash of the scenario snapshot.
	ScenarioHash string `yaml:"scenario_hash" json:"scenario_hash"`

	RulesVersion string `yaml:"rules_version" json:"rules_version"`
}

// Model is the assembled report.
type Model struct {
	Meta     Meta                  `yaml:"meta" json:"meta"`
	Scenario scenario.Scenario     `yaml:"scenario" json:"scenario"`
	Sizing   scoring.SizingResult  `yaml:"sizing" json:"sizing"`
	Risk     scoring.RiskProfile   `yaml:"risk" json:"risk"`
	Glossary []rules.GlossaryEntry `yaml:"glossary" json:"glossary"`

	Maturity   *maturity.Result         `yaml:"maturity" json:"maturity"`
	Diagrams   *generate.DiagramSet     `yaml:"diagrams" json:"diagrams"`
	Blueprints *generate.BlueprintSet   `yaml:"blueprints" json:"blueprints"`
	Topics     *generate.TopicSet       `yaml:"topics" json:"topics"`
	Connectors *generate.ConnectorMap   `yaml:"connectors" json:"connectors"`
	Governance *generate.GovernancePack `yaml:"governance" json:"governance"`
	Costs      *generate.CostBreakdown  `yaml:"costs" json:"costs"`
	ROI        *generate.ROIProjection  `yaml:"roi" json:"roi"`
	Delivery   *generate.DeliveryPlan   `yaml:"delivery" json:"delivery"`
	Roadmap    *generate.Roadmap        `yaml:"roadmap" json:"roadmap"`
	Prompts    *generate.PromptSet      `yaml:"prompts" json:"prompts"`
	TestPlan   *generate.TestPlan       `yaml:"test_plan" json:"test_plan"`
	Datasets   *generate.DatasetSet     `yaml:"datasets" json:"datasets"`
}

// Has reports whether the section is present.
func (m *Model) Has(s Section) bool {
	switch s {
	case SectionMaturity:
		return m.Maturity != nil
	case SectionDiagrams:
		return m.Diagrams != nil
	case SectionBlueprints:
		return m.Blueprints != nil
	case SectionTopics:
		return m.Topics != nil
	case SectionConnectors:
		return m.Connectors != nil
	case SectionGovernance:
		return m.Governance != nil
	case SectionCosts:
		return m.Costs != nil
	case SectionROI:
		return m.ROI != nil
	case SectionDelivery:
		return m.Delivery != nil
	case SectionRoadmap:
		return m.Roadmap != nil
	case SectionPrompts:
		return m.Prompts != nil
	case SectionTestPlan:
		return m.TestPlan != nil
	case SectionDatasets:
		return m.Datasets != nil
	default:
		return false
	}
}

// Present returns the present sections in report order.
func (m *Model) Present() []Section {
	var out []Section
	for _, s := range Sections {
		if m.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// Title returns the display title of the report.
func (m *Model) Title() string {
	name := strings.TrimSpace(m.Scenario.Name)
	if name == "" {
		name = m.Scenario.ID
	}
	if org := strings.TrimSpace(m.Scenario.Metadata.Organization); org != "" {
		if name == "" {
			return org
		}
		return org + ": " + name
	}
	if name == "" {
		return "Untitled scenario"
	}
	return name
}
