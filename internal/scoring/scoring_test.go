package scoring

import (
	"strings"
	"testing"

	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

func uniform(v int) scenario.Scores {
	s := scenario.Scores{}
	for _, d := range scenario.Dimensions {
		s[d] = v
	}
	return s
}

func TestClassify_Bands(t *testing.T) {
	cfg := rules.Default()

	tests := []struct {
		name   string
		scores scenario.Scores
		total  int
		size   rules.Size
	}{
		{"all low", uniform(1), 8, rules.SizeSmall},
		{"all medium", uniform(2), 16, rules.SizeMedium},
		{"all high", uniform(3), 24, rules.SizeLarge},
		{"empty", scenario.Scores{}, 0, rules.SizeSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(tt.scores, cfg)
			if r.TotalScore != tt.total {
				t.Errorf("expected total %d, got %d", tt.total, r.TotalScore)
			}
			if r.Size != tt.size {
				t.Errorf("expected size %s, got %s", tt.size, r.Size)
			}
		})
	}
}

func TestClassify_FallsBackToLargestBand(t *testing.T) {
	cfg := rules.Default()
	cfg.SizeBands = []rules.SizeBand{
		{Size: rules.SizeSmall, Max: 4, Tracks: 1},
		{Size: rules.SizeMedium, Max: 8, Tracks: 2},
	}

	r := Classify(uniform(3), cfg)
	if r.Size != rules.SizeMedium {
		t.Errorf("expected fallback to Medium, got %s", r.Size)
	}
	if r.Tracks != 2 {
		t.Errorf("expected 2 tracks, got %d", r.Tracks)
	}
}

func TestClassify_IgnoresInvalidAndUnknownScores(t *testing.T) {
	scores := scenario.Scores{
		scenario.DimUserReach:     3,
		scenario.DimAutonomyLevel: 5,
		"unknown":                 3,
	}

	r := Classify(scores, rules.Default())
	if r.TotalScore != 3 {
		t.Errorf("expected total 3, got %d", r.TotalScore)
	}
	if r.ScoredDimensions != 1 {
		t.Errorf("expected 1 scored dimension, got %d", r.ScoredDimensions)
	}
}

func TestClassify_PartialNote(t *testing.T) {
	r := Classify(scenario.Scores{scenario.DimUserReach: 2}, rules.Default())

	found := false
	for _, n := range r.Notes {
		if strings.HasPrefix(n, "7 of 8 dimensions unscored") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected partial-assessment note, got %v", r.Notes)
	}

	full := Classify(uniform(2), rules.Default())
	for _, n := range full.Notes {
		if strings.Contains(n, "unscored") {
			t.Errorf("expected no partial note for complete scores, got %q", n)
		}
	}
}

// Raising any single dimension never moves the classification to a smaller band.
func TestClassify_Monotonic(t *testing.T) {
	cfg := rules.Default()
	rank := map[rules.Size]int{rules.SizeSmall: 1, rules.SizeMedium: 2, rules.SizeLarge: 3}

	bases := []scenario.Scores{uniform(1), uniform(2), {scenario.DimUserReach: 1}, {}}
	for _, base := range bases {
		for _, d := range scenario.Dimensions {
			for v := scenario.MinScore; v < scenario.MaxScore; v++ {
				lower := scenario.Scores{}
				for k, s := range base {
					lower[k] = s
				}
				lower[d] = v

				higher := scenario.Scores{}
				for k, s := range lower {
					higher[k] = s
				}
				higher[d] = v + 1

				lo := Classify(lower, cfg)
				hi := Classify(higher, cfg)
				if rank[hi.Size] < rank[lo.Size] {
					t.Errorf("raising %s from %d to %d moved size from %s to %s", d, v, v+1, lo.Size, hi.Size)
				}
			}
		}
	}
}

func TestClassify_AgentNeeds(t *testing.T) {
	scores := uniform(1)
	scores[scenario.DimAutonomyLevel] = 2
	scores[scenario.DimChannelDiversity] = 3

	r := Classify(scores, rules.Default())

	if len(r.AgentNeeds) != 5 {
		t.Fatalf("expected an entry for every agent type, got %d", len(r.AgentNeeds))
	}

	want := map[rules.AgentType]rules.Necessity{
		rules.AgentExperience: rules.NecessityRequired,
		rules.AgentProcess:    rules.NecessityOptional,
		rules.AgentFunction:   rules.NecessityOptional,
		rules.AgentTask:       rules.NecessityRecommended,
		rules.AgentControl:    rules.NecessityRequired,
	}
	for _, n := range r.AgentNeeds {
		if n.Necessity != want[n.AgentType] {
			t.Errorf("expected %s to be %s, got %s", n.AgentType, want[n.AgentType], n.Necessity)
		}
	}

	if r.CountFor(rules.AgentProcess) != 0 {
		t.Errorf("expected 0 process agents, got %d", r.CountFor(rules.AgentProcess))
	}
	if r.CountFor(rules.AgentControl) != 1 {
		t.Errorf("expected 1 control agent, got %d", r.CountFor(rules.AgentControl))
	}
	if len(r.NonOptional()) != 3 {
		t.Errorf("expected 3 non-optional agents, got %d", len(r.NonOptional()))
	}
}

func TestClassify_FirstMatchPerTypeWins(t *testing.T) {
	cfg := rules.Default()
	cfg.ArchetypeRules = []rules.ArchetypeRule{
		{Condition: rules.Condition{Dimension: scenario.DimUserReach, Value: 1}, AgentType: rules.AgentTask, Necessity: rules.NecessityRecommended, Reason: "first"},
		{Condition: rules.Condition{Dimension: scenario.DimUserReach, Value: 1}, AgentType: rules.AgentTask, Necessity: rules.NecessityRequired, Reason: "second"},
	}

	r := Classify(scenario.Scores{scenario.DimUserReach: 3}, cfg)
	for _, n := range r.AgentNeeds {
		if n.AgentType == rules.AgentTask && n.Reason != "first" {
			t.Errorf("expected first matching rule to win, got %q", n.Reason)
		}
	}
}

func TestClassify_DeterministicAcrossInsertionOrder(t *testing.T) {
	a := scenario.Scores{scenario.DimUserReach: 3, scenario.DimProcessComplexity: 2, scenario.DimKnowledgeVolume: 1}
	b := scenario.Scores{}
	b[scenario.DimKnowledgeVolume] = 1
	b[scenario.DimProcessComplexity] = 2
	b[scenario.DimUserReach] = 3

	ra := Classify(a, rules.Default())
	rb := Classify(b, rules.Default())

	if ra.Size != rb.Size || ra.TotalScore != rb.TotalScore {
		t.Errorf("expected identical classification, got %+v vs %+v", ra, rb)
	}
	for i := range ra.AgentNeeds {
		if ra.AgentNeeds[i] != rb.AgentNeeds[i] {
			t.Errorf("expected identical agent needs at %d, got %+v vs %+v", i, ra.AgentNeeds[i], rb.AgentNeeds[i])
		}
	}
}

func TestAssessRisk(t *testing.T) {
	cfg := rules.Default()

	tests := []struct {
		name    string
		scores  scenario.Scores
		level   rules.RiskLevel
		reasons int
	}{
		{"nothing scored", scenario.Scores{}, rules.RiskLow, 0},
		{"all low", uniform(1), rules.RiskLow, 0},
		{"confidential data", scenario.Scores{scenario.DimDataSensitivity: 2}, rules.RiskModerate, 1},
		{"regulated and autonomous", scenario.Scores{
			scenario.DimDataSensitivity: 3,
			scenario.DimAutonomyLevel:   3,
			scenario.DimUserReach:       3,
		}, rules.RiskHigh, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := AssessRisk(tt.scores, cfg)
			if p.Level != tt.level {
				t.Errorf("expected level %s, got %s", tt.level, p.Level)
			}
			if len(p.Reasons) != tt.reasons {
				t.Errorf("expected %d reasons, got %d: %v", tt.reasons, len(p.Reasons), p.Reasons)
			}
		})
	}
}

func TestAssessRisk_ReasonsInDeclaredOrder(t *testing.T) {
	cfg := &rules.Config{RiskRules: []rules.RiskRule{
		{Condition: rules.Condition{Dimension: scenario.DimUserReach, Value: 1}, Level: rules.RiskModerate, Message: "a"},
		{Condition: rules.Condition{Dimension: scenario.DimAutonomyLevel, Value: 1}, Level: rules.RiskHigh, Message: "b"},
		{Condition: rules.Condition{Dimension: scenario.DimKnowledgeVolume, Value: 1}, Level: rules.RiskLow, Message: "c"},
	}}

	p := AssessRisk(uniform(2), cfg)
	if strings.Join(p.Reasons, ",") != "a,b,c" {
		t.Errorf("expected reasons a,b,c, got %v", p.Reasons)
	}
	if p.Level != rules.RiskHigh {
		t.Errorf("expected HIGH, got %s", p.Level)
	}
}
