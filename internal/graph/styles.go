package graph

import "strings"

// EntityShape defines diagram shapes for different node kinds.
// Both D2 and Mermaid have native shape support.
type EntityShape struct {
	D2Shape      string // D2 shape name (rectangle, hexagon, diamond, etc.)
	MermaidShape string // Mermaid shape syntax ([], {{}}, {}, etc.)
}

// EntityShapes maps node kinds to their diagram shapes.
var EntityShapes = map[string]EntityShape{
	// People and channels - rounded
	"user":    {D2Shape: "person", MermaidShape: "([])"},
	"channel": {D2Shape: "oval", MermaidShape: "([])"},

	// Agents - hexagons, one kind per agent type
	"experience": {D2Shape: "hexagon", MermaidShape: "{{}}"},
	"process":    {D2Shape: "hexagon", MermaidShape: "{{}}"},
	"function":   {D2Shape: "hexagon", MermaidShape: "{{}}"},
	"task":       {D2Shape: "hexagon", MermaidShape: "{{}}"},
	"control":    {D2Shape: "hexagon", MermaidShape: "{{}}"},

	// Integration
	"connector": {D2Shape: "parallelogram", MermaidShape: "[//]"},
	"system":    {D2Shape: "cylinder", MermaidShape: "[()]"},
	"knowledge": {D2Shape: "page", MermaidShape: "[()]"},

	// Governance
	"risk":       {D2Shape: "rectangle", MermaidShape: "[]"},
	"policy":     {D2Shape: "diamond", MermaidShape: "{}"},
	"checkpoint": {D2Shape: "circle", MermaidShape: "(())"},

	// Default fallback
	"default": {D2Shape: "rectangle", MermaidShape: "[]"},
}

// EdgeStyle defines diagram edge styles for different relation kinds.
type EdgeStyle struct {
	D2Style      string // D2 edge syntax (->, <->, etc.)
	MermaidStyle string // Mermaid edge syntax (-->, -.->, ==>)
	D2Dash       int    // D2 stroke-dash, 0 for solid
}

// EdgeStyles maps relation kinds to their diagram edge styles.
var EdgeStyles = map[string]EdgeStyle{
	// Request routing - solid arrow
	"routes": {D2Style: "->", MermaidStyle: "-->"},

	// System calls - thick arrow
	"calls": {D2Style: "->", MermaidStyle: "==>"},

	// Grounding on knowledge - dashed
	"grounds": {D2Style: "->", MermaidStyle: "-.->", D2Dash: 3},

	// Oversight and escalation - dashed
	"oversees":  {D2Style: "->", MermaidStyle: "-.->", D2Dash: 5},
	"escalates": {D2Style: "->", MermaidStyle: "-.->", D2Dash: 5},

	// Governance flow - solid arrow
	"requires": {D2Style: "->", MermaidStyle: "-->"},

	// Default fallback
	"default": {D2Style: "->", MermaidStyle: "-->"},
}

// D2Color represents a color with fill and stroke values.
type D2Color struct {
	Fill   string // Background fill color (hex)
	Stroke string // Border/stroke color (hex)
}

// D2KindColors maps node kinds to their colors.
var D2KindColors = map[string]D2Color{
	"user":       {Fill: "#fafafa", Stroke: "#9e9e9e"}, // Near white
	"channel":    {Fill: "#fafafa", Stroke: "#9e9e9e"}, // Near white
	"experience": {Fill: "#e3f2fd", Stroke: "#1976d2"}, // Light blue
	"process":    {Fill: "#f3e5f5", Stroke: "#7b1fa2"}, // Light purple
	"function":   {Fill: "#e0f7fa", Stroke: "#0097a7"}, // Light cyan
	"task":       {Fill: "#e8f5e9", Stroke: "#388e3c"}, // Light green
	"control":    {Fill: "#fff3e0", Stroke: "#f57c00"}, // Light orange
	"connector":  {Fill: "#e0f7fa", Stroke: "#00838f"},
	"system":     {Fill: "#eceff1", Stroke: "#455a64"}, // Light gray
	"knowledge":  {Fill: "#eceff1", Stroke: "#455a64"},
	"policy":     {Fill: "#fff8e1", Stroke: "#f57f17"},
	"checkpoint": {Fill: "#fff8e1", Stroke: "#f57f17"},
}

// D2RiskColors maps risk levels to colors.
var D2RiskColors = map[string]D2Color{
	"HIGH":     {Fill: "#ffebee", Stroke: "#c62828"},
	"MODERATE": {Fill: "#fff8e1", Stroke: "#f57f17"},
	"LOW":      {Fill: "#e8f5e9", Stroke: "#388e3c"},
}

// D2Theme contains theme configuration for D2 diagrams.
type D2Theme struct {
	ID           int    // D2 theme ID
	Name         string // Human-readable name
	LayoutEngine string // Layout engine: dagre, elk, tala
}

// DefaultD2Theme is applied to every emitted D2 diagram.
var DefaultD2Theme = D2Theme{ID: 8, Name: "Colorblind Clear", LayoutEngine: "elk"}

// GetEntityShape returns the shape for a node kind, with fallback to default.
func GetEntityShape(kind string) EntityShape {
	if shape, ok := EntityShapes[kind]; ok {
		return shape
	}
	return EntityShapes["default"]
}

// GetEdgeStyle returns the style for an edge kind, with fallback to default.
func GetEdgeStyle(kind string) EdgeStyle {
	if style, ok := EdgeStyles[kind]; ok {
		return style
	}
	return EdgeStyles["default"]
}

// GetD2Color returns the color for a node kind. Risk nodes are colored by
// the risk level their label ends with.
func GetD2Color(kind, label string) (D2Color, bool) {
	if kind == "risk" {
		for level, c := range D2RiskColors {
			if strings.HasSuffix(label, level) {
				return c, true
			}
		}
		return D2Color{}, false
	}
	c, ok := D2KindColors[kind]
	return c, ok
}
