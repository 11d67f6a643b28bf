package parser

import (
	"strings"
)

// NoParent marks a node without an ownership edge
const NoParent = -1

// Node is one heading and the lines that follow it up to the next heading
type Node struct {
	// Level is the number of marker characters in the heading line
	Level int

	// Header is the raw heading line, markers included
	Header string

	// Content holds the lines between this heading and the next one
	Content []string

	// Parent is the index of the nearest enclosing heading, or NoParent
	Parent int

	// Line is the zero-based line index of the heading
	Line int
}

// Forest owns every node of a parsed document.
// Ownership edges are parent indices into Nodes.
type Forest struct {
	Nodes []Node
}

// Len returns the number of nodes
func (f *Forest) Len() int {
	return len(f.Nodes)
}

// Roots returns the indices of nodes with no parent
func (f *Forest) Roots() []int {
	var roots []int
	for i, n := range f.Nodes {
		if n.Parent == NoParent {
			roots = append(roots, i)
		}
	}
	return roots
}

// Children returns the indices of the direct children of a node
func (f *Forest) Children(index int) []int {
	var children []int
	for i, n := range f.Nodes {
		if n.Parent == index {
			children = append(children, i)
		}
	}
	return children
}

// HeadingLevel counts the marker characters anywhere in a line
func HeadingLevel(line string) int {
	return strings.Count(line, string(HeadingMarker))
}

// isBlank reports whether every line is empty after trimming
func isBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}

// Build reconstructs the heading forest from classified lines.
//
// A heading with blank content is dropped unless it is the first heading
// of the document. Each kept heading is attached to the nearest preceding
// node with a strictly smaller level, found by walking up from the
// previously placed node; when the walk finds none the node becomes a root.
func Build(lines []string, boundaries []int) *Forest {
	forest := &Forest{}
	previous := NoParent

	for i := 0; i+1 < len(boundaries); i++ {
		start, end := boundaries[i], boundaries[i+1]
		if start < 0 || start >= len(lines) {
			continue
		}

		header := lines[start]
		var content []string
		if start+1 < end {
			content = lines[start+1 : end]
		}

		if i > 0 && isBlank(content) {
			continue
		}

		node := Node{
			Level:   HeadingLevel(header),
			Header:  header,
			Content: content,
			Parent:  NoParent,
			Line:    start,
		}

		if previous != NoParent {
			node.Parent = forest.findParent(previous, node.Level)
		}

		forest.Nodes = append(forest.Nodes, node)
		previous = len(forest.Nodes) - 1
	}

	return forest
}

// findParent checks the previous node first, then walks up its ownership
// edges until a node with a smaller level is found.
func (f *Forest) findParent(previous, level int) int {
	for current := previous; current != NoParent; current = f.Nodes[current].Parent {
		if f.Nodes[current].Level < level {
			return current
		}
	}
	return NoParent
}
