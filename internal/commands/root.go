package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdcards/internal/styles"
	"github.com/gerunddev/mdcards/internal/version"
)

var globals globalOptions

var rootCmd = &cobra.Command{
	Use:   "mdcards",
	Short: "Turn markdown notes into flashcard decks",
	Long: `mdcards reads a directory of markdown notes and turns every heading into a
flashcard. The front of a card is the heading path (Parent > Child), the back
is the text under the heading. Notes choose their deck with a cards-deck key
in their front matter.

Decks are exported as Anki-importable TSV or as JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("mdcards %s\n", version.String()))

	bindGlobalFlags(rootCmd.PersistentFlags(), &globals)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
