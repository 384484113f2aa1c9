package main

import (
	"github.com/ray-u/bare-photos/internal/logging"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "photoctl",
		Short: "Maintenance commands for the bare-photos library",
		Long: `Photoctl works on the same photo library, thumbnail cache and favorites
as the bare-photos server. Configuration comes from the environment or a
.env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Startup logging is for the server; keep CLI output to results.
			if verbose {
				logging.SetLevel(logging.LevelDebug)
			} else {
				logging.SetLevel(logging.LevelWarn)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show startup and debug logging")

	cmd.AddCommand(newWarmCmd())
	cmd.AddCommand(newFavoritesCmd())
	cmd.AddCommand(newHashPasswordCmd())

	return cmd
}
