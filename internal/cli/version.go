package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd(b Build) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zenith %s (commit: %s, built: %s)\n", b.Version, b.Commit, b.Date)
		},
	}
}
