package scoring

import (
	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

// RiskProfile is the overall risk level and the messages of every matching rule.
type RiskProfile struct {
	Level   rules.RiskLevel `yaml:"level" json:"level"`
	Reasons []string        `yaml:"reasons" json:"reasons"`
}

// AssessRisk evaluates the risk rules in declared order. Every matching rule
// contributes its message; the level is the highest matched level, or LOW when
// nothing matches.
func AssessRisk(scores scenario.Scores, cfg *rules.Config) RiskProfile {
	profile := RiskProfile{Level: rules.RiskLow, Reasons: []string{}}

	for _, r := range cfg.RiskRules {
		if !r.Matches(scores) {
			continue
		}
		profile.Reasons = append(profile.Reasons, r.Message)
		if r.Level.Rank() > profile.Level.Rank() {
			profile.Level = r.Level
		}
	}

	return profile
}
