package main

import (
	"fmt"

	"github.com/tjanuki/storage-manager/internal/adapters/repository/postgres"
	"github.com/tjanuki/storage-manager/internal/config"

	"github.com/spf13/cobra"
)

func getMigrateCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var dbCfg config.DatabaseConfig
			if err := config.LoadSection(&dbCfg); err != nil {
				return fmt.Errorf("failed to load database config: %w", err)
			}

			db, err := postgres.Open(cmd.Context(), dbCfg)
			if err != nil {
				return err
			}
			defer db.Close()

			up := args[0] == "up"
			if err := postgres.Migrate(db, "file://"+source, up); err != nil {
				return fmt.Errorf("failed to run %s migrations: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s migrations completed successfully\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "db/migrations", "path to migrations directory")

	return cmd
}
