package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gerunddev/mdcards/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mdcards %s\n", version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
