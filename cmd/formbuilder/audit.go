package main

import (
	"time"

	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/database"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pruneOlderThan time.Duration

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log maintenance",
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit entries older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		retention := pruneOlderThan
		if retention <= 0 {
			retention = cfg.AuditRetention
		}
		n, err := application.NewAuditService(repository.NewRepositories(db)).Prune(cmd.Context(), retention)
		if err != nil {
			return err
		}
		log.Info("audit logs pruned", zap.Int64("removed", n), zap.Duration("older_than", retention))
		return nil
	},
}

func init() {
	auditPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 0, "retention window (default AUDIT_RETENTION)")
	auditCmd.AddCommand(auditPruneCmd)
}
