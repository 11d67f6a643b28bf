package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdcards/internal/diff"
	"github.com/gerunddev/mdcards/internal/styles"
)

var diffWidth int

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show how a rebuild would change the exported decks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Flags())
		if err != nil {
			return err
		}
		defer s.close()

		_, decks, err := s.builder.Collect(cmd.Context())
		if err != nil {
			return err
		}

		targets, err := s.builder.Targets(decks)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		writer := s.builder.Writer()
		changed := 0

		for _, d := range decks {
			fresh, err := writer.Render(d)
			if err != nil {
				return fmt.Errorf("failed to render deck %s: %w", d.Name, err)
			}

			r, err := diff.Generate(targets[d.Name], fresh)
			if err != nil {
				return err
			}
			if !r.Changed {
				continue
			}

			changed++
			fmt.Fprintln(out, styles.DeckStyle.Render(d.Name))
			fmt.Fprintln(out, r.Render(diffWidth))
		}

		if changed == 0 {
			fmt.Fprintln(out, styles.SuccessStyle.Render("✓ All decks are up to date"))
			return nil
		}
		fmt.Fprintln(out, styles.InfoStyle.Render(fmt.Sprintf("%d of %d decks would change", changed, len(decks))))
		return nil
	},
}

func init() {
	diffCmd.Flags().IntVar(&diffWidth, "width", diff.DefaultWidth, "Word wrap width")

	rootCmd.AddCommand(diffCmd)
}
