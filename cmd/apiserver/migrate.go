package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := initLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		// opening the database migrates the schema
		db, err := initDatabase(logger, &cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Info("schema is up to date", zap.String("type", cfg.Database.Type))
		return nil
	},
}
