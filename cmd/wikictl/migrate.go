package main

import (
	"github.com/spf13/cobra"
)

func migrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the embedded schema migrations",
	}

	for _, direction := range []string{"up", "down", "status"} {
		direction := direction
		cmd.AddCommand(&cobra.Command{
			Use:   direction,
			Short: "Run goose " + direction,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := a.openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()
				return db.Migrate(cmd.Context(), direction)
			},
		})
	}

	return cmd
}
