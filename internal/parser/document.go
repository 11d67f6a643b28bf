// Package parser rebuilds the heading outline of a markdown note.
//
// Lines are classified first (heading lines and the front matter block),
// then the headings are arranged into a forest where every node points
// at its nearest enclosing heading.
package parser

// Document is a parsed note
type Document struct {
	Lines          []string
	Classification Classification
	FrontMatter    FrontMatter
	Forest         *Forest

	// FrontMatterOK is false when the deck name fell back to DefaultDeck
	FrontMatterOK bool
}

// Deck returns the deck name the note's cards belong to
func (d *Document) Deck() string {
	return d.FrontMatter.CardsDeck
}

// Parse classifies the lines of a note and builds its heading forest
func Parse(text string) *Document {
	lines := SplitLines(text)
	classification := ClassifyLines(lines)
	fm, ok := ParseFrontMatter(lines, classification.FrontMatter)

	return &Document{
		Lines:          lines,
		Classification: classification,
		FrontMatter:    fm,
		FrontMatterOK:  ok,
		Forest:         Build(lines, classification.HeadingIndices),
	}
}
