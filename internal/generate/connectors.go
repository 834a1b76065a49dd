package generate

import (
	"strings"

	"github.com/hargabyte/agentsizer/internal/rules"
)

// Connector is one integration connector and the systems mapped to it.
type Connector struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Category string   `yaml:"category" json:"category"`
	Auth     string   `yaml:"auth" json:"auth"`
	Notes    string   `yaml:"notes" json:"notes"`
	Generic  bool     `yaml:"generic" json:"generic"`
	Systems  []string `yaml:"systems" json:"systems"`
}

// ConnectorMap lists the connectors needed by the scenario in first-seen order.
type ConnectorMap struct {
	Connectors []Connector `yaml:"connectors" json:"connectors"`
}

// BuildConnectors maps every system in scope to a connector.
func BuildConnectors(in Input) *ConnectorMap {
	return &ConnectorMap{Connectors: MapConnectors(in.Scenario.Systems, in.Rules)}
}

// MapConnectors matches each system name against the ordered keyword table.
// The first rule with a keyword contained in the lowercased name wins;
// unmatched systems map to the generic connector. Connectors are deduplicated
// by ID in first-seen order.
func MapConnectors(systems []string, cfg *rules.Config) []Connector {
	out := []Connector{}
	index := make(map[string]int)

	for _, raw := range systems {
		system := strings.TrimSpace(raw)
		if system == "" {
			continue
		}

		rule, generic := matchConnector(system, cfg)
		i, ok := index[rule.ID]
		if !ok {
			i = len(out)
			index[rule.ID] = i
			out = append(out, Connector{
				ID:       rule.ID,
				Name:     rule.Name,
				Category: rule.Category,
				Auth:     rule.Auth,
				Notes:    rule.Notes,
				Generic:  generic,
				Systems:  []string{},
			})
		}
		if !containsFold(out[i].Systems, system) {
			out[i].Systems = append(out[i].Systems, system)
		}
	}

	return out
}

func matchConnector(system string, cfg *rules.Config) (rules.ConnectorRule, bool) {
	name := strings.ToLower(system)
	for _, r := range cfg.Connectors {
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(name, kw) {
				return r, false
			}
		}
	}
	return cfg.Generic(), true
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
