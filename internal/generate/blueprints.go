package generate

import (
	"fmt"

	"github.com/hargabyte/agentsizer/internal/rules"
)

// Blueprint is the design outline of one recommended agent.
type Blueprint struct {
	AgentType    rules.AgentType `yaml:"agent_type" json:"agent_type"`
	Necessity    rules.Necessity `yaml:"necessity" json:"necessity"`
	Count        int             `yaml:"count" json:"count"`
	Name         string          `yaml:"name" json:"name"`
	Purpose      string          `yaml:"purpose" json:"purpose"`
	Instructions string          `yaml:"instructions" json:"instructions"`
	Rationale    string          `yaml:"rationale" json:"rationale"`
	Knowledge    []string        `yaml:"knowledge" json:"knowledge"`
	Actions      []string        `yaml:"actions" json:"actions"`
	Guardrails   []string        `yaml:"guardrails" json:"guardrails"`
	Connectors   []string        `yaml:"connectors" json:"connectors"`
}

// BlueprintSet holds one blueprint per non-optional agent type.
type BlueprintSet struct {
	Blueprints []Blueprint `yaml:"blueprints" json:"blueprints"`
}

// BuildBlueprints expands the blueprint template of every non-optional agent
// type in declared order.
func BuildBlueprints(in Input) *BlueprintSet {
	return &BlueprintSet{Blueprints: blueprints(in)}
}

func blueprints(in Input) []Blueprint {
	data := newTemplateData(in.Scenario)

	// Function and process agents own system integration.
	var connectorNames []string
	for _, c := range MapConnectors(in.Scenario.Systems, in.Rules) {
		connectorNames = append(connectorNames, c.Name)
	}

	out := []Blueprint{}
	for _, need := range in.Sizing.NonOptional() {
		tmpl := blueprintTemplate(in.Rules, need.AgentType)

		d := data
		d.AgentType = string(need.AgentType)

		bp := Blueprint{
			AgentType:    need.AgentType,
			Necessity:    need.Necessity,
			Count:        in.Sizing.CountFor(need.AgentType),
			Name:         expand(tmpl.Name, d),
			Purpose:      expand(tmpl.Purpose, d),
			Instructions: expand(tmpl.Instructions, d),
			Rationale:    need.Reason,
			Knowledge:    expandAll(tmpl.Knowledge, d),
			Actions:      expandAll(tmpl.Actions, d),
			Guardrails:   expandAll(tmpl.Guardrails, d),
			Connectors:   []string{},
		}
		if need.AgentType == rules.AgentFunction || need.AgentType == rules.AgentProcess {
			bp.Connectors = append(bp.Connectors, connectorNames...)
		}
		out = append(out, bp)
	}
	return out
}

// blueprintTemplate returns the configured template for an agent type, the
// built-in one when the rules omit it, or a minimal generic template.
func blueprintTemplate(cfg *rules.Config, t rules.AgentType) rules.BlueprintTemplate {
	if bt, ok := cfg.BlueprintFor(t); ok {
		return bt
	}
	if bt, ok := rules.Default().BlueprintFor(t); ok {
		return bt
	}

	purpose := ""
	for _, info := range cfg.Agents() {
		if info.Type == t {
			purpose = info.Description
		}
	}
	return rules.BlueprintTemplate{
		AgentType:    t,
		Name:         fmt.Sprintf("{{.Organization}} %s Agent", t),
		Purpose:      purpose,
		Instructions: fmt.Sprintf("Act as the %s agent for {{.Organization}}.", t),
		Knowledge:    []string{},
		Actions:      []string{},
		Guardrails:   []string{"Escalate to a human when unsure"},
	}
}
