package models

import (
	"strings"
)

// GraphNode represents a class in the inheritance graph.
type GraphNode struct {
	ID   string   `json:"id" yaml:"id" toon:"id"`
	Name string   `json:"name" yaml:"name" toon:"name"`
	Type NodeType `json:"type" yaml:"type" toon:"type"`
	File string   `json:"file,omitempty" yaml:"file,omitempty" toon:"file"`
	Line uint32   `json:"line,omitempty" yaml:"line,omitempty" toon:"line"`
}

// NodeType represents the type of graph node.
type NodeType string

const (
	NodeClass    NodeType = "class"
	NodeExternal NodeType = "external" // base outside the analyzed corpus
)

// GraphEdge points from a subclass to one of its bases.
type GraphEdge struct {
	From string   `json:"from" yaml:"from" toon:"from"`
	To   string   `json:"to" yaml:"to" toon:"to"`
	Type EdgeType `json:"type" yaml:"type" toon:"type"`
}

// EdgeType represents the type of inheritance edge.
type EdgeType string

const (
	EdgeInherit  EdgeType = "inherit"
	EdgeExternal EdgeType = "external"
)

// InheritanceGraph is the class hierarchy as nodes and child -> base edges.
type InheritanceGraph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes" toon:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges" toon:"edges"`
}

// NewInheritanceGraph creates an empty graph.
func NewInheritanceGraph() *InheritanceGraph {
	return &InheritanceGraph{
		Nodes: make([]GraphNode, 0),
		Edges: make([]GraphEdge, 0),
	}
}

// AddNode adds a node to the graph.
func (g *InheritanceGraph) AddNode(node GraphNode) {
	g.Nodes = append(g.Nodes, node)
}

// AddEdge adds an edge to the graph.
func (g *InheritanceGraph) AddEdge(edge GraphEdge) {
	g.Edges = append(g.Edges, edge)
}

// ToMermaid generates Mermaid diagram syntax from the graph.
func (g *InheritanceGraph) ToMermaid() string {
	var b strings.Builder
	b.WriteString("graph BT\n")

	for _, node := range g.Nodes {
		label := node.Name
		if label == "" {
			label = node.ID
		}
		open, close := "[\"", "\"]"
		if node.Type == NodeExternal {
			open, close = "([\"", "\"])"
		}
		b.WriteString("    " + sanitizeID(node.ID) + open + label + close + "\n")
	}

	for _, edge := range g.Edges {
		arrow := "-->"
		if edge.Type == EdgeExternal {
			arrow = "-.->"
		}
		b.WriteString("    " + sanitizeID(edge.From) + " " + arrow + " " + sanitizeID(edge.To) + "\n")
	}

	return b.String()
}

// ToDOT generates Graphviz DOT syntax from the graph.
func (g *InheritanceGraph) ToDOT() string {
	var b strings.Builder
	b.WriteString("digraph inheritance {\n")
	b.WriteString("    rankdir=BT;\n")
	b.WriteString("    node [shape=box];\n")

	for _, node := range g.Nodes {
		attrs := "label=\"" + node.Name + "\""
		if node.Type == NodeExternal {
			attrs += ", style=dashed"
		}
		b.WriteString("    " + sanitizeID(node.ID) + " [" + attrs + "];\n")
	}

	for _, edge := range g.Edges {
		attrs := ""
		if edge.Type == EdgeExternal {
			attrs = " [style=dashed]"
		}
		b.WriteString("    " + sanitizeID(edge.From) + " -> " + sanitizeID(edge.To) + attrs + ";\n")
	}

	b.WriteString("}\n")
	return b.String()
}

// sanitizeID makes an ID safe for Mermaid and DOT.
func sanitizeID(id string) string {
	var b strings.Builder
	for _, c := range id {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
