package main

import (
	"context"

	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/database"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.OpenAndMigrate(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		users := application.NewUserService(repository.NewRepositories(db), cfg.AdminUsername, cfg.TokenTTL)
		if err := ensureAdmin(cmd.Context(), users); err != nil {
			return err
		}
		log.Info("database migrated")
		return nil
	},
}

// ensureAdmin provisions the configured admin account. Without ADMIN_PASSWORD
// no account is created and nobody holds admin rights.
func ensureAdmin(ctx context.Context, users *application.UserService) error {
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, admin account not provisioned", zap.String("username", cfg.AdminUsername))
		return nil
	}
	if err := users.EnsureAdmin(ctx, cfg.AdminPassword); err != nil {
		return err
	}
	log.Info("admin account provisioned", zap.String("username", cfg.AdminUsername))
	return nil
}
