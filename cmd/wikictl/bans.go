package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/wikiboard/internal/maintenance"
	"github.com/BradenHooton/wikiboard/internal/repositories"
)

func bansCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bans",
		Short: "Ban housekeeping",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Clear every timed ban that has already run out",
		Long: `Clear lapsed timed bans in one pass. The API already treats a lapsed ban as
lifted on the user's next request; run this before exporting user lists or
reading dashboard ban counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			sweeper := maintenance.NewBanSweeper(repositories.NewUserRepository(db), nil, a.logger)
			cleared, err := sweeper.Sweep(cmd.Context())
			if err != nil {
				return fmt.Errorf("ban sweep failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d expired bans\n", cleared)
			return nil
		},
	})

	return cmd
}
