package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/gerunddev/mdcards/internal/card"
	"github.com/gerunddev/mdcards/internal/convert"
	"github.com/gerunddev/mdcards/internal/styles"
)

var (
	previewRaw   bool
	previewWidth int
)

var previewCmd = &cobra.Command{
	Use:   "preview <note.md>",
	Short: "Show the cards a single note produces",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Flags())
		if err != nil {
			return err
		}
		defer s.close()

		return renderPreview(cmd.OutOrStdout(), args[0], s.builder.Pipeline(), previewOptions{
			Raw:   previewRaw,
			Width: previewWidth,
		})
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewRaw, "raw", false, "Print card text without markdown rendering")
	previewCmd.Flags().IntVar(&previewWidth, "width", 80, "Word wrap width for rendered card backs")

	rootCmd.AddCommand(previewCmd)
}

type previewOptions struct {
	Raw   bool
	Width int
}

// renderPreview prints the deck name and every card of the note at path
func renderPreview(w io.Writer, path string, p *convert.Pipeline, opts previewOptions) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read note: %w", err)
	}

	deckName, cards := card.FromText(string(content), p)

	fmt.Fprintln(w, styles.TitleStyle.Render(path)+" "+styles.DimStyle.Render("→")+" "+styles.DeckStyle.Render(deckName))
	if len(cards) == 0 {
		fmt.Fprintln(w, styles.DimStyle.Render("No cards"))
		return nil
	}

	var renderer *glamour.TermRenderer
	if !opts.Raw {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(opts.Width),
		)
		if err != nil {
			// Fall back to raw text
			renderer = nil
		}
	}

	for i, c := range cards {
		back := c.Back
		if renderer != nil {
			if rendered, err := renderer.Render(back); err == nil {
				back = strings.Trim(rendered, "\n")
			}
		}
		if back == "" {
			back = styles.DimStyle.Render("(empty)")
		}

		title := styles.DimStyle.Render(fmt.Sprintf("%d/%d ", i+1, len(cards))) + styles.HighlightStyle.Render(c.Front)
		fmt.Fprintln(w, styles.CardStyle.Render(title+"\n\n"+back))
	}

	return nil
}
