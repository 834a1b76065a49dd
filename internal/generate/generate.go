// Package generate derives the planning artifacts of a report from a classified
// scenario. Every generator is a pure function of Input: generators do not read
// each other's output, so any subset can be produced in any order.
package generate

import (
	"bytes"
	"math"
	"strings"
	"text/template"

	"github.com/hargabyte/agentsizer/internal/maturity"
	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
	"github.com/hargabyte/agentsizer/internal/scoring"
)

// Input is everything a generator may depend on.
type Input struct {
	Scenario scenario.Scenario
	Rules    *rules.Config
	Sizing   scoring.SizingResult
	Risk     scoring.RiskProfile

	// Maturity is nil in quick mode.
	Maturity *maturity.Result
}

// NewInput classifies the scenario and assesses its risk and maturity.
func NewInput(s scenario.Scenario, cfg *rules.Config) Input {
	cfg = rules.Complete(cfg)
	scores := s.SizingScores()
	in := Input{
		Scenario: s,
		Rules:    cfg,
		Sizing:   scoring.Classify(scores, cfg),
		Risk:     scoring.AssessRisk(scores, cfg),
	}
	if s.EffectiveMode() == scenario.ModeFull {
		m := maturity.Assess(s.MaturityScores, cfg)
		in.Maturity = &m
	}
	return in
}

// templateData is the data handed to rules text templates.
type templateData struct {
	Organization string
	Industry     string
	Sponsor      string
	Objective    string
	Region       string
	ScenarioName string

	AgentType    string
	AgentName    string
	Purpose      string
	Instructions string
	Guardrails   []string
}

func newTemplateData(s scenario.Scenario) templateData {
	org := strings.TrimSpace(s.Metadata.Organization)
	if org == "" {
		org = "Organization"
	}
	industry := strings.TrimSpace(s.Metadata.Industry)
	if industry == "" {
		industry = "business"
	}
	return templateData{
		Organization: org,
		Industry:     industry,
		Sponsor:      s.Metadata.Sponsor,
		Objective:    s.Metadata.Objective,
		Region:       s.Metadata.Region,
		ScenarioName: s.Name,
	}
}

// expand executes a text template. Malformed templates are returned verbatim
// so a bad rules file degrades the text rather than failing the report.
func expand(text string, data templateData) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	tmpl, err := template.New("text").Option("missingkey=zero").Parse(text)
	if err != nil {
		return text
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}

func expandAll(texts []string, data templateData) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		out = append(out, expand(t, data))
	}
	return out
}

// roundMoney rounds to cents.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
