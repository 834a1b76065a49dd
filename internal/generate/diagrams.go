package generate

import (
	"fmt"

	"github.com/hargabyte/agentsizer/internal/graph"
	"github.com/hargabyte/agentsizer/internal/rules"
)

// Diagram view IDs.
const (
	ViewAgentFlow         = "agent_flow"
	ViewSystemIntegration = "system_integration"
	ViewGovernance        = "governance"
)

// Diagram is one view rendered in both diagram languages.
type Diagram struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Mermaid string `yaml:"mermaid" json:"mermaid"`
	D2      string `yaml:"d2" json:"d2"`
}

// DiagramSet holds the fixed diagram views in a fixed order.
type DiagramSet struct {
	Diagrams []Diagram `yaml:"diagrams" json:"diagrams"`
}

// BuildDiagrams emits the agent flow, system integration and governance views.
func BuildDiagrams(in Input) *DiagramSet {
	views := []*graph.Graph{
		agentFlowGraph(in),
		integrationGraph(in),
		governanceGraph(in),
	}
	ids := []string{ViewAgentFlow, ViewSystemIntegration, ViewGovernance}

	set := &DiagramSet{Diagrams: make([]Diagram, 0, len(views))}
	for i, g := range views {
		set.Diagrams = append(set.Diagrams, Diagram{
			ID:      ids[i],
			Title:   g.Title,
			Mermaid: graph.Mermaid(g),
			D2:      graph.D2(g),
		})
	}
	return set
}

func agentLabel(t rules.AgentType, count int) string {
	if count > 1 {
		return fmt.Sprintf("%s agent (x%d)", t, count)
	}
	return fmt.Sprintf("%s agent", t)
}

func has(needs []rules.AgentType, t rules.AgentType) bool {
	for _, n := range needs {
		if n == t {
			return true
		}
	}
	return false
}

func agentFlowGraph(in Input) *graph.Graph {
	g := graph.New("Agent flow")
	g.AddGroup("agents", "Agents")
	g.AddNode(graph.Node{ID: "users", Label: "Users", Kind: "user"})

	var types []rules.AgentType
	for _, need := range in.Sizing.NonOptional() {
		types = append(types, need.AgentType)
		g.AddNode(graph.Node{
			ID:    need.AgentType.Slug(),
			Label: agentLabel(need.AgentType, in.Sizing.CountFor(need.AgentType)),
			Kind:  need.AgentType.Slug(),
			Group: "agents",
		})
	}

	if len(types) == 0 {
		g.AddNode(graph.Node{ID: "none", Label: "No agents recommended"})
		g.AddEdge(graph.Edge{From: "users", To: "none", Kind: "routes"})
		return g
	}

	entry := "users"
	if has(types, rules.AgentExperience) {
		g.AddEdge(graph.Edge{From: "users", To: rules.AgentExperience.Slug(), Kind: "routes", Label: "conversations"})
		entry = rules.AgentExperience.Slug()
	}

	for _, t := range types {
		if t == rules.AgentExperience || t == rules.AgentControl {
			continue
		}
		if t == rules.AgentFunction && has(types, rules.AgentProcess) {
			g.AddEdge(graph.Edge{From: rules.AgentProcess.Slug(), To: t.Slug(), Kind: "calls", Label: "system actions"})
			continue
		}
		g.AddEdge(graph.Edge{From: entry, To: t.Slug(), Kind: "routes"})
	}

	if has(types, rules.AgentTask) {
		g.AddNode(graph.Node{ID: "knowledge", Label: "Knowledge sources", Kind: "knowledge"})
		g.AddEdge(graph.Edge{From: rules.AgentTask.Slug(), To: "knowledge", Kind: "grounds"})
	}

	if has(types, rules.AgentControl) {
		for _, t := range types {
			if t != rules.AgentControl {
				g.AddEdge(graph.Edge{From: rules.AgentControl.Slug(), To: t.Slug(), Kind: "oversees"})
			}
		}
	}

	if len(types) == 1 && types[0] == rules.AgentControl {
		g.AddEdge(graph.Edge{From: "users", To: rules.AgentControl.Slug(), Kind: "routes"})
	}

	return g
}

// integrationAgent picks the agent that owns system calls.
func integrationAgent(in Input) (rules.AgentType, bool) {
	var types []rules.AgentType
	for _, need := range in.Sizing.NonOptional() {
		types = append(types, need.AgentType)
	}
	for _, t := range []rules.AgentType{rules.AgentFunction, rules.AgentProcess, rules.AgentExperience} {
		if has(types, t) {
			return t, true
		}
	}
	if len(types) > 0 {
		return types[0], true
	}
	return "", false
}

func integrationGraph(in Input) *graph.Graph {
	g := graph.New("System integration")
	g.AddGroup("connectors", "Connectors")
	g.AddGroup("systems", "Systems of record")

	source := "integration"
	if t, ok := integrationAgent(in); ok {
		source = t.Slug()
		g.AddNode(graph.Node{ID: source, Label: agentLabel(t, in.Sizing.CountFor(t)), Kind: t.Slug()})
	} else {
		g.AddNode(graph.Node{ID: source, Label: "Integration layer"})
	}

	connectors := MapConnectors(in.Scenario.Systems, in.Rules)
	if len(connectors) == 0 {
		g.AddNode(graph.Node{ID: "none", Label: "No systems in scope"})
		g.AddEdge(graph.Edge{From: source, To: "none", Kind: "calls"})
		return g
	}

	sys := 0
	for _, c := range connectors {
		connID := "conn-" + c.ID
		g.AddNode(graph.Node{ID: connID, Label: c.Name, Kind: "connector", Group: "connectors"})
		g.AddEdge(graph.Edge{From: source, To: connID, Kind: "calls", Label: c.Auth})
		for _, s := range c.Systems {
			sys++
			sysID := fmt.Sprintf("sys-%d", sys)
			g.AddNode(graph.Node{ID: sysID, Label: s, Kind: "system", Group: "systems"})
			g.AddEdge(graph.Edge{From: connID, To: sysID, Kind: "calls"})
		}
	}
	return g
}

func governanceGraph(in Input) *graph.Graph {
	g := graph.New("Governance")
	g.Direction = "TD"
	g.AddGroup("controls", "Required controls")
	g.AddGroup("checkpoints", "Oversight checkpoints")

	g.AddNode(graph.Node{
		ID:    "risk",
		Label: fmt.Sprintf("Impact %s / Risk: %s", in.Rules.ImpactFor(in.Risk.Level), in.Risk.Level),
		Kind:  "risk",
	})

	controls, checkpoints := EvaluateGovernance(in.Scenario.SizingScores(), in.Risk.Level, in.Rules)
	for _, c := range controls {
		id := c.ID
		g.AddNode(graph.Node{ID: id, Label: c.Name, Kind: "policy", Group: "controls"})
		g.AddEdge(graph.Edge{From: "risk", To: id, Kind: "requires"})
	}

	prev := "risk"
	for _, c := range checkpoints {
		id := c.ID
		g.AddNode(graph.Node{ID: id, Label: c.Name, Kind: "checkpoint", Group: "checkpoints"})
		g.AddEdge(graph.Edge{From: prev, To: id, Kind: "requires", Label: c.Stage})
		prev = id
	}
	return g
}
