package cron

import (
	"context"
	"time"

	"github.com/linskybing/nominate-go/internal/application"
	"go.uber.org/zap"
)

const (
	auditCleanupInterval = 24 * time.Hour
	sessionSweepInterval = 10 * time.Minute
	sessionIdleTimeout   = time.Hour
)

// StartCleanupTask prunes audit logs older than retentionDays and forgets
// abandoned autosave sessions until ctx is done.
func StartCleanupTask(ctx context.Context, audits *application.AuditService, drafts *application.DraftService, retentionDays int, logger *zap.Logger) {
	logger = logger.Named("cron")
	go func() {
		logger.Info("starting background cleanup task", zap.Int("retention_days", retentionDays))

		cleanup := func() {
			if err := audits.CleanupOldLogs(ctx, retentionDays); err != nil {
				logger.Error("failed to cleanup old audit logs", zap.Error(err))
				return
			}
			logger.Info("audit log cleanup completed")
		}
		cleanup()

		auditTicker := time.NewTicker(auditCleanupInterval)
		defer auditTicker.Stop()
		sweepTicker := time.NewTicker(sessionSweepInterval)
		defer sweepTicker.Stop()

		for {
			select {
			case <-auditTicker.C:
				cleanup()
			case <-sweepTicker.C:
				if n := drafts.Sweep(sessionIdleTimeout); n > 0 {
					logger.Debug("forgot idle draft sessions", zap.Int("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
