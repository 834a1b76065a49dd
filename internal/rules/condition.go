package rules

import (
	"fmt"
	"strings"

	"github.com/hargabyte/agentsizer/internal/scenario"
)

// Op is a comparison operator used by rule conditions.
type Op string

const (
	OpGTE Op = "gte"
	OpLTE Op = "lte"
	OpEQ  Op = "eq"
)

// ValidOps lists the accepted operators. An empty operator means OpGTE.
var ValidOps = []Op{OpGTE, OpLTE, OpEQ}

// Compare applies the operator to a present score.
func (o Op) Compare(score, value int) bool {
	switch o {
	case OpLTE:
		return score <= value
	case OpEQ:
		return score == value
	default:
		return score >= value
	}
}

// Symbol returns the comparison symbol of o, e.g. ">=".
func (o Op) Symbol() string {
	switch o {
	case OpLTE:
		return "<="
	case OpEQ:
		return "=="
	default:
		return ">="
	}
}

// IsValid reports whether o is empty or one of ValidOps.
func (o Op) IsValid() bool {
	if o == "" {
		return true
	}
	for _, v := range ValidOps {
		if o == v {
			return true
		}
	}
	return false
}

// Condition tests one assessment dimension. An unscored dimension never matches.
type Condition struct {
	Dimension scenario.Dimension `yaml:"dimension" json:"dimension"`
	Op        Op                 `yaml:"op" json:"op"`
	Value     int                `yaml:"value" json:"value"`
}

// IsSet reports whether the condition names a dimension.
func (c Condition) IsSet() bool {
	return c.Dimension != ""
}

// Matches evaluates the condition against scores.
func (c Condition) Matches(scores scenario.Scores) bool {
	if !c.IsSet() {
		return false
	}
	v, ok := scores.Get(c.Dimension)
	if !ok {
		return false
	}
	return c.Op.Compare(v, c.Value)
}

// String renders the condition for notes and logs, e.g. "data_sensitivity >= 3".
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %d", c.Dimension, c.Op.Symbol(), c.Value)
}

// Matches evaluates the gate against maturity scores. Missing maturity scores
// count as 1, matching the maturity engine's fallback.
func (g MaturityGate) Matches(scores scenario.MaturityScores) bool {
	v, ok := scores[g.Dimension]
	if !ok || !scenario.ValidScore(v) {
		v = scenario.MinScore
	}
	return g.Op.Compare(v, g.Value)
}

// HasSize reports whether size is listed, treating an empty list as "any size".
func (i Initiative) HasSize(size Size) bool {
	if len(i.Sizes) == 0 {
		return true
	}
	for _, s := range i.Sizes {
		if strings.EqualFold(string(s), string(size)) {
			return true
		}
	}
	return false
}
