package generate

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/hargabyte/agentsizer/internal/rules"
)

// DatasetRow is one labelled evaluation utterance.
type DatasetRow struct {
	Utterance     string          `yaml:"utterance" json:"utterance"`
	ExpectedTopic string          `yaml:"expected_topic" json:"expected_topic"`
	AgentType     rules.AgentType `yaml:"agent_type" json:"agent_type"`
}

// Dataset is the evaluation dataset of one agent.
type Dataset struct {
	AgentType rules.AgentType `yaml:"agent_type" json:"agent_type"`
	Name      string          `yaml:"name" json:"name"`
	Rows      []DatasetRow    `yaml:"rows" json:"rows"`
}

// DatasetSet holds one dataset per non-optional agent.
type DatasetSet struct {
	Datasets []Dataset `yaml:"datasets" json:"datasets"`
}

// utteranceVariants rephrase a trigger so the dataset covers more than the
// literal trigger phrase.
var utteranceVariants = []string{
	"%s",
	"Hi, %s",
	"Can you help? %s",
}

// BuildDatasets derives an evaluation dataset per agent from its topics.
func BuildDatasets(in Input) *DatasetSet {
	all := topics(in)
	set := &DatasetSet{Datasets: []Dataset{}}

	for _, need := range in.Sizing.NonOptional() {
		ds := Dataset{
			AgentType: need.AgentType,
			Name:      fmt.Sprintf("%s agent evaluation", need.AgentType),
			Rows:      []DatasetRow{},
		}
		for _, tp := range all {
			if tp.AgentType != need.AgentType {
				continue
			}
			for _, trigger := range tp.Triggers {
				for _, v := range utteranceVariants {
					ds.Rows = append(ds.Rows, DatasetRow{
						Utterance:     fmt.Sprintf(v, trigger),
						ExpectedTopic: tp.Name,
						AgentType:     need.AgentType,
					})
				}
			}
		}
		set.Datasets = append(set.Datasets, ds)
	}

	return set
}

// CSV encodes the dataset with a header row.
func (d Dataset) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"utterance", "expected_topic", "agent_type"}); err != nil {
		return nil, err
	}
	for _, r := range d.Rows {
		if err := w.Write([]string{r.Utterance, r.ExpectedTopic, string(r.AgentType)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encoding dataset %s: %w", d.Name, err)
	}
	return buf.Bytes(), nil
}
