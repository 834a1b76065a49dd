package generate

import "github.com/hargabyte/agentsizer/internal/rules"

// Prompt is the generated system prompt of one agent.
type Prompt struct {
	AgentType rules.AgentType `yaml:"agent_type" json:"agent_type"`
	AgentName string          `yaml:"agent_name" json:"agent_name"`
	System    string          `yaml:"system" json:"system"`
}

// PromptSet holds one prompt per non-optional agent.
type PromptSet struct {
	Prompts []Prompt `yaml:"prompts" json:"prompts"`
}

// BuildPrompts renders the prompt template for every blueprint.
func BuildPrompts(in Input) *PromptSet {
	tmpl := in.Rules.Templates.Prompt
	if tmpl == "" {
		tmpl = rules.Default().Templates.Prompt
	}

	data := newTemplateData(in.Scenario)
	set := &PromptSet{Prompts: []Prompt{}}
	for _, bp := range blueprints(in) {
		d := data
		d.AgentType = string(bp.AgentType)
		d.AgentName = bp.Name
		d.Purpose = bp.Purpose
		d.Instructions = bp.Instructions
		d.Guardrails = bp.Guardrails

		set.Prompts = append(set.Prompts, Prompt{
			AgentType: bp.AgentType,
			AgentName: bp.Name,
			System:    expand(tmpl, d),
		})
	}
	return set
}
