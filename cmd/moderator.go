package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tg-miniapp-backend/internal/database"
	"tg-miniapp-backend/internal/repository"
	repogorm "tg-miniapp-backend/internal/repository/gorm"
	"tg-miniapp-backend/internal/utils"
)

func moderatorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moderator",
		Short: "Manage moderator accounts",
	}
	cmd.AddCommand(moderatorCreateCommand())
	return cmd
}

func moderatorCreateCommand() *cobra.Command {
	var email, name, password string

	cmd := cobra.Command{
		Use:   "create",
		Short: "Create a moderator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			db, err := database.Initialize(cfg, logger)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			hash, err := utils.HashPassword(password)
			if err != nil {
				return err
			}
			mod, err := repogorm.NewGormRepository(db).CreateModerator(cmd.Context(), email, name, hash)
			if err != nil {
				if errors.Is(err, repository.ErrAlreadyExists) {
					return fmt.Errorf("moderator %s already exists", email)
				}
				return err
			}
			logger.WithField("moderator_id", mod.ID).Info("moderator created")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&email, "email", "", "login email")
	flags.StringVar(&name, "name", "", "display name")
	flags.StringVar(&password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return &cmd
}
