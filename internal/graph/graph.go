// Package graph builds declarative diagrams and emits them as Mermaid and D2
// text. Nodes, groups and edges keep their insertion order so the emitted text
// is a pure function of how the graph was built.
package graph

// Node is a diagram vertex.
type Node struct {
	ID    string
	Label string
	Kind  string // shape/style key, see EntityShapes
	Group string // optional group ID
}

// Edge is a directed diagram edge.
type Edge struct {
	From  string
	To    string
	Kind  string // style key, see EdgeStyles
	Label string
}

// Group clusters nodes into a Mermaid subgraph or a D2 container.
type Group struct {
	ID    string
	Label string
}

// Graph is an ordered diagram description.
type Graph struct {
	Title     string
	Direction string // "LR" or "TD"

	groups []Group
	nodes  []Node
	edges  []Edge
	index  map[string]int
}

// New creates an empty left-to-right graph.
func New(title string) *Graph {
	return &Graph{
		Title:     title,
		Direction: "LR",
		index:     make(map[string]int),
	}
}

// AddGroup declares a group. Re-declaring an existing group is a no-op.
func (g *Graph) AddGroup(id, label string) {
	for _, gr := range g.groups {
		if gr.ID == id {
			return
		}
	}
	g.groups = append(g.groups, Group{ID: id, Label: label})
}

// AddNode adds a node unless a node with the same ID exists; the first
// declaration wins.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.index[n.ID]; ok {
		return
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// AddEdge adds an edge. Edges whose endpoints are not declared nodes are dropped.
func (g *Graph) AddEdge(e Edge) {
	if !g.HasNode(e.From) || !g.HasNode(e.To) {
		return
	}
	g.edges = append(g.edges, e)
}

// HasNode reports whether id is a declared node.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Nodes returns the nodes in declaration order.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the edges in declaration order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Groups returns the groups in declaration order.
func (g *Graph) Groups() []Group {
	return g.groups
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// nodesIn returns the nodes of a group in declaration order. An empty group ID
// selects ungrouped nodes and nodes whose group was never declared.
func (g *Graph) nodesIn(group string) []Node {
	declared := make(map[string]bool, len(g.groups))
	for _, gr := range g.groups {
		declared[gr.ID] = true
	}

	var out []Node
	for _, n := range g.nodes {
		effective := n.Group
		if !declared[effective] {
			effective = ""
		}
		if effective == group {
			out = append(out, n)
		}
	}
	return out
}
