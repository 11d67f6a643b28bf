// Package card assembles flashcards from a parsed note.
package card

import (
	"strings"

	"github.com/gerunddev/mdcards/internal/convert"
	"github.com/gerunddev/mdcards/internal/parser"
)

// Card is a single question and answer pair
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Transformer rewrites card text before it is stored on a card
type Transformer interface {
	Apply(text string) string
}

// FromNode builds the card for one node of a forest.
// The front is the stripped ancestor chain followed by the node's own heading.
func FromNode(forest *parser.Forest, index int, t Transformer) Card {
	node := forest.Nodes[index]

	front := parser.StripMarkers(node.Header)
	if context := forest.ContextString(index); context != "" {
		front = context + parser.ContextSeparator + front
	}

	back := strings.TrimSpace(strings.Join(node.Content, "\n"))

	if t != nil {
		front = t.Apply(front)
		back = t.Apply(back)
	}

	return Card{Front: front, Back: back}
}

// FromDocument builds one card per node in node order
func FromDocument(doc *parser.Document, t Transformer) []Card {
	cards := make([]Card, 0, doc.Forest.Len())
	for i := range doc.Forest.Nodes {
		cards = append(cards, FromNode(doc.Forest, i, t))
	}
	return cards
}

// FromText parses a note and builds its cards
func FromText(text string, p *convert.Pipeline) (string, []Card) {
	doc := parser.Parse(text)
	return doc.Deck(), FromDocument(doc, p)
}
