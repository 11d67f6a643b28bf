package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdcards/internal/build"
	"github.com/gerunddev/mdcards/internal/styles"
)

var buildForce bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export every changed deck",
	Long: `Parse every note below the notes directory and write one export file per
deck. Decks whose notes are unchanged since the last build are skipped unless
--force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Flags())
		if err != nil {
			return err
		}
		defer s.close()

		result, err := s.builder.Build(cmd.Context(), build.Options{Force: buildForce})
		if err != nil {
			return err
		}
		s.saveState()

		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "Rewrite every deck, changed or not")

	rootCmd.AddCommand(buildCmd)
}

func printResult(w io.Writer, r *build.Result) {
	for _, name := range r.Written {
		fmt.Fprintln(w, styles.SuccessStyle.Render("✓")+" "+styles.DeckStyle.Render(name))
	}
	for _, name := range r.Skipped {
		fmt.Fprintln(w, styles.DimStyle.Render("· "+name+" (unchanged)"))
	}
	for _, name := range r.Orphaned {
		fmt.Fprintln(w, styles.WarningStyle.Render("! "+name+" has no notes left; its export was kept"))
	}
	fmt.Fprintln(w, styles.InfoStyle.Render(r.String()))
}
