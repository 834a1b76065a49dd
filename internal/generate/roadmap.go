package generate

import (
	"sort"
	"strings"

	"github.com/hargabyte/agentsizer/internal/rules"
)

// RoadmapItem is a selected value-roadmap initiative.
type RoadmapItem struct {
	ID          string        `yaml:"id" json:"id"`
	Title       string        `yaml:"title" json:"title"`
	Description string        `yaml:"description" json:"description"`
	Horizon     rules.Horizon `yaml:"horizon" json:"horizon"`
	Rationale   string        `yaml:"rationale" json:"rationale"`
}

// Roadmap is the value-roadmap section of the report.
type Roadmap struct {
	Items []RoadmapItem `yaml:"items" json:"items"`
}

// BuildRoadmap selects every initiative whose maturity gates and size filter
// pass, stable-sorted by horizon.
func BuildRoadmap(in Input) *Roadmap {
	items := []RoadmapItem{}

	for _, candidate := range in.Rules.Roadmap {
		if !candidate.HasSize(in.Sizing.Size) {
			continue
		}
		passed := true
		for _, g := range candidate.Gates {
			if !g.Matches(in.Scenario.MaturityScores) {
				passed = false
				break
			}
		}
		if !passed {
			continue
		}

		items = append(items, RoadmapItem{
			ID:          candidate.ID,
			Title:       candidate.Title,
			Description: candidate.Description,
			Horizon:     candidate.Horizon,
			Rationale:   rationale(candidate),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Horizon.Rank() < items[j].Horizon.Rank()
	})

	return &Roadmap{Items: items}
}

func rationale(candidate rules.Initiative) string {
	var parts []string
	for _, g := range candidate.Gates {
		parts = append(parts, g.String())
	}
	if len(candidate.Sizes) > 0 {
		sizes := make([]string, 0, len(candidate.Sizes))
		for _, s := range candidate.Sizes {
			sizes = append(sizes, string(s))
		}
		parts = append(parts, "size "+strings.Join(sizes, "/"))
	}
	if len(parts) == 0 {
		return "Applies to every scenario"
	}
	return strings.Join(parts, ", ")
}
