package cron

import (
	"context"
	"time"

	"github.com/linskybing/formbuilder-go/internal/application"
	"go.uber.org/zap"
)

// StartAuditRetention prunes audit entries older than retention once at
// startup and then every interval, until ctx is cancelled. The returned
// channel is closed when the loop has exited.
func StartAuditRetention(ctx context.Context, log *zap.Logger, audit *application.AuditService, retention, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("starting audit retention task", zap.Duration("retention", retention), zap.Duration("interval", interval))

		prune := func() {
			n, err := audit.Prune(ctx, retention)
			if err != nil {
				log.Warn("audit log cleanup failed", zap.Error(err))
				return
			}
			log.Info("audit log cleanup completed", zap.Int64("removed", n))
		}

		prune()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				prune()
			}
		}
	}()
	return done
}
