package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.ProcessEnvironmentVariables()
			if err != nil {
				return err
			}
			if dbPath != "" {
				env.SQLiteDBPath = dbPath
			}
			logger := logging.SetupLogging(env.LogLevel)

			status, err := storage.RunMigrations(env.SQLiteDBPath)
			if err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			logger.WithFields(logrus.Fields{
				"preMigrationVersion":  status.PreMigrationVersion,
				"postMigrationVersion": status.PostMigrationVersion,
			}).Info("Migration status")
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database file, overrides SQLITE_DB_PATH")

	return cmd
}
