package main

import (
	"fmt"

	"github.com/ray-u/bare-photos/internal/app"
	"github.com/ray-u/bare-photos/internal/startup"

	"github.com/spf13/cobra"
)

func newFavoritesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "Print the favorites set",
		Long:  "Prints every favorite path, sorted, one per line.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := startup.LoadConfig()
			if err != nil {
				return err
			}

			a, err := app.OpenFavorites(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := a.Favorites.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load favorites: %w", err)
			}
			for _, p := range set.Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
