// Command wikictl is the operator CLI for database migrations, role
// promotion, ban housekeeping and local development tokens.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/wikiboard/internal/config"
	"github.com/BradenHooton/wikiboard/internal/database"
)

// app carries state shared by subcommands
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (a *app) openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.NewConnection(ctx, &a.cfg.Database, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func rootCommand() *cobra.Command {
	a := &app{logger: slog.New(slog.NewTextHandler(os.Stderr, nil))}

	cmd := &cobra.Command{
		Use:           "wikictl",
		Short:         "Operate a wikiboard deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.AddCommand(migrateCommand(a), promoteCommand(a), bansCommand(a), tokenCommand(a))
	return cmd
}

func main() {
	if err := rootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
