package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// DefaultWidth is the word wrap width of rendered diffs
const DefaultWidth = 120

// Result is the difference between an exported deck and a rebuild of it
type Result struct {
	Path    string
	Unified string
	Changed bool
}

// Generate diffs the deck file at path against freshly rendered content.
// A missing file is treated as empty so new decks show as all additions.
func Generate(path string, fresh []byte) (*Result, error) {
	old, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}

	name := filepath.Base(path)
	before, after := string(old), string(fresh)

	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	unified := fmt.Sprint(gotextdiff.ToUnified(name+" (exported)", name+" (rebuilt)", before, edits))

	return &Result{
		Path:    path,
		Unified: unified,
		Changed: len(edits) > 0,
	}, nil
}

// Render formats a diff for the terminal
func (r *Result) Render(width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", r.Unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}
