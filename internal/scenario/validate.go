package scenario

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Issue describes one problem found by Validate.
type Issue struct {
	Field   string `yaml:"field" json:"field"`
	Message string `yaml:"message" json:"message"`
}

func (i Issue) String() string {
	return i.Field + ": " + i.Message
}

// Validate reports data-quality issues in the scenario. Issues never block report
// generation: out-of-range scores are treated as unscored by the engines.
func (s *Scenario) Validate() []Issue {
	var issues []Issue

	if strings.TrimSpace(s.ID) == "" {
		issues = append(issues, Issue{Field: "id", Message: "is empty"})
	}
	if s.Mode != "" {
		if _, ok := ParseMode(string(s.Mode)); !ok {
			issues = append(issues, Issue{Field: "mode", Message: fmt.Sprintf("unknown mode %q", s.Mode)})
		}
	}

	issues = append(issues, validateScores("current_scores", s.CurrentScores)...)
	issues = append(issues, validateScores("target_scores", s.TargetScores)...)

	for _, d := range sortedKeys(s.MaturityScores) {
		v := s.MaturityScores[d]
		if !d.IsKnown() {
			issues = append(issues, Issue{Field: "maturity_scores." + string(d), Message: "unknown maturity dimension"})
		} else if !ValidScore(v) {
			issues = append(issues, Issue{Field: "maturity_scores." + string(d), Message: fmt.Sprintf("score %d out of range 1-3", v)})
		}
	}

	for _, f := range s.assumptionFields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			issues = append(issues, Issue{Field: f.field, Message: fmt.Sprintf("non-finite value %v", f.value)})
		}
	}

	seen := make(map[string]bool)
	for i, name := range s.Systems {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			issues = append(issues, Issue{Field: fmt.Sprintf("systems[%d]", i), Message: "is empty"})
			continue
		}
		if seen[key] {
			issues = append(issues, Issue{Field: fmt.Sprintf("systems[%d]", i), Message: fmt.Sprintf("duplicate system %q", name)})
		}
		seen[key] = true
	}

	return issues
}

func validateScores(field string, scores Scores) []Issue {
	var issues []Issue
	for _, d := range sortedKeys(scores) {
		v := scores[d]
		if !d.IsKnown() {
			issues = append(issues, Issue{Field: field + "." + string(d), Message: "unknown dimension"})
		} else if !ValidScore(v) {
			issues = append(issues, Issue{Field: field + "." + string(d), Message: fmt.Sprintf("score %d out of range 1-3", v)})
		}
	}
	return issues
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
