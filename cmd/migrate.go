package cmd

import (
	"fmt"

	"polyglot-booking/pkg/database"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the payments schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap("migrate")
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.InitDB(config.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}

			logger.Info("Payments schema applied")
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}
