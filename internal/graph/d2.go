package graph

import (
	"fmt"
	"strings"
)

// D2 renders the graph as D2 source. Groups become containers, so edges to
// grouped nodes use the qualified "group.node" key.
func D2(g *Graph) string {
	var sb strings.Builder

	sb.WriteString("vars: {\n")
	sb.WriteString("  d2-config: {\n")
	sb.WriteString(fmt.Sprintf("    theme-id: %d\n", DefaultD2Theme.ID))
	sb.WriteString(fmt.Sprintf("    layout-engine: %s\n", DefaultD2Theme.LayoutEngine))
	sb.WriteString("  }\n")
	sb.WriteString("}\n\n")

	direction := "right"
	if g.Direction == "TD" {
		direction = "down"
	}
	sb.WriteString(fmt.Sprintf("direction: %s\n", direction))

	if g.Title != "" {
		sb.WriteString(fmt.Sprintf("title: {\n  label: %s\n  near: top-center\n  shape: text\n}\n", d2String(g.Title)))
	}

	sb.WriteString("\n# Nodes\n")
	for _, n := range g.nodesIn("") {
		sb.WriteString(generateD2Node(sanitizeD2ID(n.ID), n, ""))
		sb.WriteString("\n")
	}

	for _, gr := range g.groups {
		members := g.nodesIn(gr.ID)
		if len(members) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: {\n", sanitizeD2ID(gr.ID)))
		sb.WriteString(fmt.Sprintf("  label: %s\n", d2String(gr.Label)))
		for _, n := range members {
			sb.WriteString(generateD2Node(sanitizeD2ID(n.ID), n, "  "))
			sb.WriteString("\n")
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\n# Edges\n")
	for _, e := range g.edges {
		sb.WriteString(generateD2Edge(g.d2Key(e.From), g.d2Key(e.To), e))
		sb.WriteString("\n")
	}

	return sb.String()
}

// d2Key returns the fully qualified D2 key of a node.
func (g *Graph) d2Key(id string) string {
	n, _ := g.Node(id)
	for _, gr := range g.groups {
		if gr.ID == n.Group {
			return sanitizeD2ID(gr.ID) + "." + sanitizeD2ID(id)
		}
	}
	return sanitizeD2ID(id)
}

// generateD2Node generates a D2 node definition.
func generateD2Node(key string, n Node, indent string) string {
	shape := GetEntityShape(n.Kind)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%s: {\n", indent, key))
	sb.WriteString(fmt.Sprintf("%s  label: %s\n", indent, d2String(n.Label)))
	sb.WriteString(fmt.Sprintf("%s  shape: %s\n", indent, shape.D2Shape))

	if color, ok := GetD2Color(n.Kind, n.Label); ok {
		sb.WriteString(fmt.Sprintf("%s  style: {\n", indent))
		sb.WriteString(fmt.Sprintf("%s    fill: \"%s\"\n", indent, color.Fill))
		sb.WriteString(fmt.Sprintf("%s    stroke: \"%s\"\n", indent, color.Stroke))
		sb.WriteString(fmt.Sprintf("%s  }\n", indent))
	}

	sb.WriteString(indent + "}")
	return sb.String()
}

// generateD2Edge generates a D2 edge definition.
func generateD2Edge(from, to string, e Edge) string {
	style := GetEdgeStyle(e.Kind)

	line := fmt.Sprintf("%s %s %s", from, style.D2Style, to)
	if e.Label != "" {
		line += ": " + d2String(e.Label)
	}
	if style.D2Dash > 0 {
		if e.Label == "" {
			line += ": {\n"
		} else {
			line += " {\n"
		}
		line += fmt.Sprintf("  style.stroke-dash: %d\n}", style.D2Dash)
	}
	return line
}

// sanitizeD2ID makes an ID safe for D2 by quoting if necessary.
// D2 IDs with special characters need to be quoted.
func sanitizeD2ID(id string) string {
	needsQuoting := id == ""
	for _, c := range id {
		if !isAlphanumeric(c) && c != '_' && c != '-' {
			needsQuoting = true
			break
		}
	}

	if needsQuoting {
		escaped := strings.ReplaceAll(id, "\"", "\\\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return id
}

// d2String quotes a label for D2.
func d2String(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", " ")
	return "\"" + s + "\""
}

// isAlphanumeric returns true if the rune is a letter or digit.
func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
