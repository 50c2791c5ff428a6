package main

import (
	"fmt"

	"gift-tracker-go/internal/config"
	"gift-tracker-go/internal/db"
	"gift-tracker-go/pkg/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(log)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			gormDB, err := db.Open(cfg.DB, log)
			if err != nil {
				return err
			}
			defer db.Close(gormDB)

			if err := db.Migrate(cmd.Context(), gormDB, cfg.DB.Driver, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
