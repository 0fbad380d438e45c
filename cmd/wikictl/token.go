package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BradenHooton/wikiboard/internal/auth"
	"github.com/BradenHooton/wikiboard/internal/models"
)

func tokenCommand(a *app) *cobra.Command {
	var (
		email string
		name  string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token signed with the identity provider secret",
		Long: `Mint a bearer token for local development. The token carries the configured
issuer and audience and is accepted by the API like one from the identity provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Server.Env == "production" {
				return fmt.Errorf("refusing to mint tokens in production")
			}

			verifier := auth.NewTokenVerifier(a.cfg.Auth.JWTSecret, a.cfg.Auth.Issuer, a.cfg.Auth.Audience)
			token, err := verifier.Issue(models.Identity{Subject: args[0], Email: email, Name: name}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
