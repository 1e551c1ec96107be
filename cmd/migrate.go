package cmd

import (
	"github.com/spf13/cobra"

	"tg-miniapp-backend/internal/database"
	"tg-miniapp-backend/internal/migration"
)

func migrateCommand() *cobra.Command {
	var dropDB bool

	cmd := cobra.Command{
		Use:   "migrate",
		Short: "Execute database schema migration only",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cfg, logger)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if dropDB {
				logger.Warn("dropping all tables")
				if err := migration.DropAll(db); err != nil {
					return err
				}
			}
			if err := migration.Migrate(db); err != nil {
				return err
			}
			logger.Info("database schema is up to date")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropDB, "reset", false, "whether to truncate database (drop all tables)")
	return &cmd
}
