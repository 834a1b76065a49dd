// Package scoring classifies a scored assessment into a size band, derives the
// recommended agent archetypes and assesses the overall risk level.
//
// Both engines are pure functions of the scores and the rules configuration.
// Unscored dimensions contribute nothing and never trigger a rule.
package scoring

import (
	"fmt"

	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

// AgentNeed records how strongly one agent type is recommended and why.
type AgentNeed struct {
	AgentType rules.AgentType `yaml:"agent_type" json:"agent_type"`
	Necessity rules.Necessity `yaml:"necessity" json:"necessity"`
	Reason    string          `yaml:"reason" json:"reason"`
}

// ArchetypeCount is the suggested number of agents of one type.
type ArchetypeCount struct {
	AgentType rules.AgentType `yaml:"agent_type" json:"agent_type"`
	Count     int             `yaml:"count" json:"count"`
}

// SizingResult is the output of Classify.
type SizingResult struct {
	TotalScore       int              `yaml:"total_score" json:"total_score"`
	ScoredDimensions int              `yaml:"scored_dimensions" json:"scored_dimensions"`
	Size             rules.Size       `yaml:"size" json:"size"`
	Tracks           int              `yaml:"tracks" json:"tracks"`
	Notes            []string         `yaml:"notes" json:"notes"`
	AgentNeeds       []AgentNeed      `yaml:"agent_needs" json:"agent_needs"`
	Archetypes       []ArchetypeCount `yaml:"archetypes" json:"archetypes"`
}

// NonOptional returns the agent needs that are required or recommended, in
// declared agent-type order.
func (r SizingResult) NonOptional() []AgentNeed {
	var out []AgentNeed
	for _, n := range r.AgentNeeds {
		if n.Necessity != rules.NecessityOptional {
			out = append(out, n)
		}
	}
	return out
}

// CountFor returns the archetype count for an agent type.
func (r SizingResult) CountFor(t rules.AgentType) int {
	for _, a := range r.Archetypes {
		if a.AgentType == t {
			return a.Count
		}
	}
	return 0
}

// TotalAgents returns the sum of all archetype counts.
func (r SizingResult) TotalAgents() int {
	total := 0
	for _, a := range r.Archetypes {
		total += a.Count
	}
	return total
}

// Classify sums the present scores, selects the size band and derives agent needs.
func Classify(scores scenario.Scores, cfg *rules.Config) SizingResult {
	total, scored := Total(scores)
	band := selectBand(total, cfg.Bands())

	result := SizingResult{
		TotalScore:       total,
		ScoredDimensions: scored,
		Size:             band.Size,
		Tracks:           max(band.Tracks, 1),
		Notes:            append([]string{}, band.Notes...),
	}

	if missing := len(scenario.Dimensions) - scored; missing > 0 {
		result.Notes = append(result.Notes,
			fmt.Sprintf("%d of %d dimensions unscored; classification is provisional.", missing, len(scenario.Dimensions)))
	}

	matched := make(map[rules.AgentType]rules.ArchetypeRule)
	for _, r := range cfg.ArchetypeRules {
		if _, seen := matched[r.AgentType]; seen {
			continue
		}
		if r.Matches(scores) {
			matched[r.AgentType] = r
		}
	}

	for _, info := range cfg.Agents() {
		need := AgentNeed{AgentType: info.Type, Necessity: rules.NecessityOptional}
		if r, ok := matched[info.Type]; ok {
			need.Necessity = r.Necessity
			if need.Necessity == "" {
				need.Necessity = rules.NecessityRecommended
			}
			need.Reason = r.Reason
		}

		count := 0
		if need.Necessity != rules.NecessityOptional {
			count = band.AgentMultiplier
		}

		result.AgentNeeds = append(result.AgentNeeds, need)
		result.Archetypes = append(result.Archetypes, ArchetypeCount{AgentType: info.Type, Count: count})
	}

	return result
}

// Total returns the sum of the valid scores of known dimensions and how many
// dimensions contributed.
func Total(scores scenario.Scores) (total, scored int) {
	for _, d := range scenario.Dimensions {
		if v, ok := scores.Get(d); ok {
			total += v
			scored++
		}
	}
	return total, scored
}

// selectBand picks the smallest band whose Max is at least total, falling back
// to the largest band. Bands are ordered ascending.
func selectBand(total int, bands []rules.SizeBand) rules.SizeBand {
	for _, b := range bands {
		if total <= b.Max {
			return b
		}
	}
	return bands[len(bands)-1]
}
