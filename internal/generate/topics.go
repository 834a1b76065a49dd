package generate

import (
	"fmt"

	"github.com/hargabyte/agentsizer/internal/rules"
)

// Topic is one conversational topic of an agent.
type Topic struct {
	AgentType rules.AgentType `yaml:"agent_type" json:"agent_type"`
	Name      string          `yaml:"name" json:"name"`
	Triggers  []string        `yaml:"triggers" json:"triggers"`
	Steps     []string        `yaml:"steps" json:"steps"`
}

// TopicSet holds the topics of every non-optional agent in declared order.
type TopicSet struct {
	Topics []Topic `yaml:"topics" json:"topics"`
}

// BuildTopics expands the topic templates of every non-optional agent type.
func BuildTopics(in Input) *TopicSet {
	return &TopicSet{Topics: topics(in)}
}

// ForAgent returns the topics of one agent type.
func (ts *TopicSet) ForAgent(t rules.AgentType) []Topic {
	var out []Topic
	for _, tp := range ts.Topics {
		if tp.AgentType == t {
			out = append(out, tp)
		}
	}
	return out
}

func topics(in Input) []Topic {
	data := newTemplateData(in.Scenario)
	out := []Topic{}

	for _, need := range in.Sizing.NonOptional() {
		d := data
		d.AgentType = string(need.AgentType)

		for _, tt := range topicTemplates(in.Rules, need.AgentType) {
			out = append(out, Topic{
				AgentType: need.AgentType,
				Name:      expand(tt.Name, d),
				Triggers:  expandAll(tt.Triggers, d),
				Steps:     expandAll(tt.Steps, d),
			})
		}
	}
	return out
}

func topicTemplates(cfg *rules.Config, t rules.AgentType) []rules.TopicTemplate {
	if tts := cfg.TopicsFor(t); len(tts) > 0 {
		return tts
	}
	if tts := rules.Default().TopicsFor(t); len(tts) > 0 {
		return tts
	}
	return []rules.TopicTemplate{{
		AgentType: t,
		Name:      fmt.Sprintf("%s request", t),
		Triggers:  []string{fmt.Sprintf("I need help with a %s request", t)},
		Steps:     []string{"Clarify the request", "Fulfil or escalate"},
	}}
}
