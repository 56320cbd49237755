package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moneybot/internal/log"
	"moneybot/internal/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQLite schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.SQLiteDBPath
			}
			logger := a.logger.WithComponent(log.ComponentStorage)

			if err := storage.RunMigrations(dbPath); err != nil {
				logger.Error("Migration failed", log.FieldError, err, "path", dbPath)
				return err
			}
			version, dirty, err := storage.MigrationVersion(dbPath)
			if err != nil {
				return err
			}
			logger.Info("Migrations applied", log.FieldOperation, log.OpMigrate, "version", version, "dirty", dirty)
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default SQLITE_DB_PATH)")
	return cmd
}
