package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdcards/internal/state"
	"github.com/gerunddev/mdcards/internal/styles"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List notes changed since the last build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Flags())
		if err != nil {
			return err
		}
		defer s.close()

		changed, removed, err := s.builder.Pending()
		if err != nil {
			return err
		}

		printStatus(cmd.OutOrStdout(), s.cfg.NotesDir, s.state, changed, removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(w io.Writer, notesDir string, st *state.State, changed, removed []string) {
	fmt.Fprintln(w, styles.TitleStyle.Render("mdcards status"))
	fmt.Fprintln(w, styles.DimStyle.Render(fmt.Sprintf("%d notes tracked, %d decks exported", len(st.Notes), len(st.Decks))))

	decks := make([]string, 0, len(st.Decks))
	for name := range st.Decks {
		decks = append(decks, name)
	}
	sort.Strings(decks)
	for _, name := range decks {
		fmt.Fprintln(w, "  "+styles.DeckStyle.Render(name)+" "+styles.DimStyle.Render(st.Decks[name].Path))
	}

	if len(changed) == 0 && len(removed) == 0 {
		fmt.Fprintln(w, styles.SuccessStyle.Render("✓ No note changes since the last build"))
		return
	}

	for _, path := range changed {
		fmt.Fprintln(w, styles.WarningStyle.Render("M")+" "+relPath(notesDir, path))
	}
	for _, path := range removed {
		fmt.Fprintln(w, styles.ErrorStyle.Render("D")+" "+relPath(notesDir, path))
	}
	fmt.Fprintln(w, styles.InfoStyle.Render(fmt.Sprintf("%d changed, %d removed. Run 'mdcards build' to export.", len(changed), len(removed))))
}

func relPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
