package graph

import (
	"fmt"
	"regexp"
	"strings"
)

// Mermaid renders the graph as a Mermaid flowchart. Groups become subgraphs;
// nodes and edges are emitted in declaration order.
func Mermaid(g *Graph) string {
	var sb strings.Builder

	if g.Title != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeMermaidString(g.Title)))
		sb.WriteString("---\n")
	}

	direction := g.Direction
	if direction != "TD" && direction != "LR" {
		direction = "LR"
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	for _, n := range g.nodesIn("") {
		sb.WriteString(fmt.Sprintf("    %s\n", generateMermaidNode(sanitizeMermaidID(n.ID), n.Label, n.Kind)))
	}

	for _, gr := range g.groups {
		members := g.nodesIn(gr.ID)
		if len(members) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n", sanitizeMermaidID("grp_"+gr.ID), escapeMermaidString(gr.Label)))
		for _, n := range members {
			sb.WriteString(fmt.Sprintf("        %s\n", generateMermaidNode(sanitizeMermaidID(n.ID), n.Label, n.Kind)))
		}
		sb.WriteString("    end\n")
	}

	for _, e := range g.edges {
		sb.WriteString(fmt.Sprintf("    %s\n", generateMermaidEdge(sanitizeMermaidID(e.From), sanitizeMermaidID(e.To), e.Kind, e.Label)))
	}

	return sb.String()
}

// generateMermaidNode creates a Mermaid node declaration with appropriate shape.
func generateMermaidNode(id, name string, kind string) string {
	shape := GetEntityShape(kind)
	escapedName := escapeMermaidString(name)

	switch shape.MermaidShape {
	case "{{}}":
		return fmt.Sprintf("%s{{\"%s\"}}", id, escapedName)
	case "{}":
		return fmt.Sprintf("%s{\"%s\"}", id, escapedName)
	case "([])":
		return fmt.Sprintf("%s([\"%s\"])", id, escapedName)
	case "[()]":
		return fmt.Sprintf("%s[(\"%s\")]", id, escapedName)
	case "[//]":
		return fmt.Sprintf("%s[/\"%s\"/]", id, escapedName)
	case "(())":
		return fmt.Sprintf("%s((\"%s\"))", id, escapedName)
	default:
		return fmt.Sprintf("%s[\"%s\"]", id, escapedName)
	}
}

// generateMermaidEdge creates a Mermaid edge declaration with appropriate style.
func generateMermaidEdge(from, to, kind, label string) string {
	style := GetEdgeStyle(kind)
	if label == "" {
		return fmt.Sprintf("%s %s %s", from, style.MermaidStyle, to)
	}
	return fmt.Sprintf("%s %s|\"%s\"| %s", from, style.MermaidStyle, escapeMermaidString(label), to)
}

// sanitizeMermaidID converts an ID to be valid in Mermaid.
// Mermaid IDs can contain alphanumeric chars and underscores.
var mermaidIDRegex = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func sanitizeMermaidID(id string) string {
	sanitized := mermaidIDRegex.ReplaceAllString(id, "_")

	// Mermaid IDs must not start with a digit
	if len(sanitized) > 0 && sanitized[0] >= '0' && sanitized[0] <= '9' {
		sanitized = "_" + sanitized
	}

	if sanitized == "" {
		sanitized = "_empty"
	}

	// "end" is a reserved word in flowcharts
	if strings.EqualFold(sanitized, "end") {
		sanitized = "_" + sanitized
	}

	return sanitized
}

// escapeMermaidString escapes special characters in Mermaid string content.
func escapeMermaidString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	s = strings.ReplaceAll(s, ">", "#gt;")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
