package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/repositories"
)

// RoleSetter updates a stored user's role
type RoleSetter interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetRole(ctx context.Context, id, role string) (*models.User, error)
}

func promoteCommand(a *app) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "promote <user-id>",
		Short: "Set a user's role",
		Long: `Set a user's role without going through the admin API. This is how the
first administrator is created.

Examples:
  wikictl promote auth0|abc123 --role admin
  wikictl promote auth0|def456 --role moderator`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := promote(cmd.Context(), newUserRepo(db), args[0], role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", models.RoleAdmin, "role to assign: user, moderator or admin")
	return cmd
}

func newUserRepo(db *database.DB) RoleSetter {
	return repositories.NewUserRepository(db)
}

func promote(ctx context.Context, repo RoleSetter, userID, role string) (*models.User, error) {
	role, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}

	if _, err := repo.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}

	user, err := repo.SetRole(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to set role: %w", err)
	}
	return user, nil
}
