package generate

import (
	"fmt"

	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

// Control is a required governance control.
type Control struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Owner       string `yaml:"owner" json:"owner"`
	Trigger     string `yaml:"trigger" json:"trigger"`
}

// Checkpoint is a human oversight checkpoint.
type Checkpoint struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Owner       string `yaml:"owner" json:"owner"`
	Stage       string `yaml:"stage" json:"stage"`
	Trigger     string `yaml:"trigger" json:"trigger"`
}

// GovernancePack is the governance section of the report.
type GovernancePack struct {
	RiskLevel   rules.RiskLevel `yaml:"risk_level" json:"risk_level"`
	ImpactLevel string          `yaml:"impact_level" json:"impact_level"`
	Reasons     []string        `yaml:"reasons" json:"reasons"`
	Controls    []Control       `yaml:"controls" json:"controls"`
	Checkpoints []Checkpoint    `yaml:"checkpoints" json:"checkpoints"`
}

// BuildGovernance derives the impact level, controls and checkpoints.
func BuildGovernance(in Input) *GovernancePack {
	controls, checkpoints := EvaluateGovernance(in.Scenario.SizingScores(), in.Risk.Level, in.Rules)
	return &GovernancePack{
		RiskLevel:   in.Risk.Level,
		ImpactLevel: in.Rules.ImpactFor(in.Risk.Level),
		Reasons:     append([]string{}, in.Risk.Reasons...),
		Controls:    controls,
		Checkpoints: checkpoints,
	}
}

// EvaluateGovernance applies the governance rules in declared order. A rule
// applies when its condition (if set) matches and the risk level is at least
// its minimum (if set); rules with neither always apply. Results are
// deduplicated by ID, first occurrence wins.
func EvaluateGovernance(scores scenario.Scores, risk rules.RiskLevel, cfg *rules.Config) ([]Control, []Checkpoint) {
	controls := []Control{}
	checkpoints := []Checkpoint{}
	seen := make(map[string]bool)

	for _, r := range cfg.GovernanceRules {
		if seen[r.ID] {
			continue
		}
		if r.IsSet() && !r.Matches(scores) {
			continue
		}
		if r.MinRisk != "" && !risk.AtLeast(r.MinRisk) {
			continue
		}
		seen[r.ID] = true

		trigger := governanceTrigger(r)
		switch r.Kind {
		case rules.KindCheckpoint:
			checkpoints = append(checkpoints, Checkpoint{
				ID: r.ID, Name: r.Name, Description: r.Description,
				Owner: r.Owner, Stage: r.Stage, Trigger: trigger,
			})
		default:
			controls = append(controls, Control{
				ID: r.ID, Name: r.Name, Description: r.Description,
				Owner: r.Owner, Trigger: trigger,
			})
		}
	}

	return controls, checkpoints
}

func governanceTrigger(r rules.GovernanceRule) string {
	switch {
	case r.IsSet() && r.MinRisk != "":
		return fmt.Sprintf("%s and risk >= %s", r.Condition, r.MinRisk)
	case r.IsSet():
		return r.Condition.String()
	case r.MinRisk != "":
		return fmt.Sprintf("risk >= %s", r.MinRisk)
	default:
		return "always"
	}
}
