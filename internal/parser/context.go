package parser

import (
	"strings"
)

// ContextSeparator joins heading texts in a context chain
const ContextSeparator = " > "

// StripMarkers removes marker characters and surrounding whitespace from a heading
func StripMarkers(header string) string {
	return strings.TrimSpace(strings.ReplaceAll(header, string(HeadingMarker), ""))
}

// Context returns the raw ancestor headings of a node, root first
func (f *Forest) Context(index int) []string {
	if index < 0 || index >= len(f.Nodes) {
		return nil
	}

	var chain []string
	for current := f.Nodes[index].Parent; current != NoParent; current = f.Nodes[current].Parent {
		chain = append(chain, f.Nodes[current].Header)
	}

	// Collected bottom-up
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain
}

// ContextString returns the stripped ancestor headings joined with ContextSeparator
func (f *Forest) ContextString(index int) string {
	chain := f.Context(index)
	for i, header := range chain {
		chain[i] = StripMarkers(header)
	}
	return strings.Join(chain, ContextSeparator)
}
