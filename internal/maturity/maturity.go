// Package maturity computes the organisational readiness score from the six
// maturity sub-scores and maps each sub-score to a recommendation.
package maturity

import (
	"math"

	"github.com/hargabyte/agentsizer/internal/rules"
	"github.com/hargabyte/agentsizer/internal/scenario"
)

// Level is a named band of the normalized maturity score.
type Level string

const (
	LevelInitial               Level = "Initial"
	LevelManaged               Level = "Managed"
	LevelDefined               Level = "Defined"
	LevelQuantitativelyManaged Level = "Quantitatively Managed"
	LevelOptimizing            Level = "Optimizing"
)

// LevelFor maps a normalized 0-100 score to its level.
func LevelFor(normalized int) Level {
	switch {
	case normalized < 20:
		return LevelInitial
	case normalized < 40:
		return LevelManaged
	case normalized < 60:
		return LevelDefined
	case normalized < 80:
		return LevelQuantitativelyManaged
	default:
		return LevelOptimizing
	}
}

// Tier is the recommendation tier selected by a sub-score.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// DimensionResult is the assessed state of one maturity dimension.
type DimensionResult struct {
	Dimension      scenario.MaturityDimension `yaml:"dimension" json:"dimension"`
	Label          string                     `yaml:"label" json:"label"`
	Score          int                        `yaml:"score" json:"score"`
	Assumed        bool                       `yaml:"assumed" json:"assumed"`
	Tier           Tier                       `yaml:"tier" json:"tier"`
	Recommendation string                     `yaml:"recommendation" json:"recommendation"`
}

// Result is the maturity assessment.
type Result struct {
	Total      int               `yaml:"total" json:"total"`
	Normalized int               `yaml:"normalized" json:"normalized"`
	Level      Level             `yaml:"level" json:"level"`
	Dimensions []DimensionResult `yaml:"dimensions" json:"dimensions"`
}

// Assess scores every maturity dimension in declared order. Missing or
// out-of-range sub-scores count as 1 and are flagged as assumed.
//
// normalized = round(((sum - N) / (2N)) * 100) with N dimensions, so all-1
// yields 0 and all-3 yields 100.
func Assess(scores scenario.MaturityScores, cfg *rules.Config) Result {
	n := len(scenario.MaturityDimensions)
	result := Result{Dimensions: make([]DimensionResult, 0, n)}

	for _, d := range scenario.MaturityDimensions {
		v, ok := scores[d]
		assumed := !ok || !scenario.ValidScore(v)
		if assumed {
			v = scenario.MinScore
		}
		result.Total += v

		tier := tierFor(v)
		result.Dimensions = append(result.Dimensions, DimensionResult{
			Dimension:      d,
			Label:          d.Label(),
			Score:          v,
			Assumed:        assumed,
			Tier:           tier,
			Recommendation: recommendation(cfg, d, tier),
		})
	}

	result.Normalized = int(math.Round(float64(result.Total-n) / float64(2*n) * 100))
	result.Level = LevelFor(result.Normalized)
	return result
}

func tierFor(score int) Tier {
	switch {
	case score <= 1:
		return TierLow
	case score == 2:
		return TierMedium
	default:
		return TierHigh
	}
}

func recommendation(cfg *rules.Config, d scenario.MaturityDimension, tier Tier) string {
	mt, ok := cfg.MaturityTemplateFor(d)
	if !ok {
		mt, ok = rules.Default().MaturityTemplateFor(d)
	}
	if !ok {
		return ""
	}
	switch tier {
	case TierLow:
		return mt.Low
	case TierMedium:
		return mt.Medium
	default:
		return mt.High
	}
}
