package main

import (
	"github.com/linskybing/nominate-go/internal/config"
	"github.com/linskybing/nominate-go/internal/config/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadConfig()
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			gdb, err := db.Open(db.DSN())
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			logger.Info("database migrated", zap.String("database", config.DbName))
			return nil
		},
	}
}
