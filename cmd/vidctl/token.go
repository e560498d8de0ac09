package main

import (
	"fmt"
	"time"

	"github.com/tjanuki/storage-manager/internal/adapters/handlers/http/chi/auth"
	"github.com/tjanuki/storage-manager/internal/config"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func getTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <owner-uuid>",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid owner id %q: %w", args[0], err)
			}

			var authCfg config.AuthConfig
			if err := config.LoadSection(&authCfg); err != nil {
				return fmt.Errorf("failed to load auth config: %w", err)
			}

			token, err := auth.IssueToken([]byte(authCfg.JWTSecret), owner, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
