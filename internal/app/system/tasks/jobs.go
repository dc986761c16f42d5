// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	"go.uber.org/zap"
)

// AuditRetentionJob deletes audit events older than retention, hourly.
func AuditRetentionJob(store *auditstore.Store, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "audit-retention",
		Interval: time.Hour,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			count, err := store.DeleteBefore(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("pruned audit events",
					zap.Int64("count", count),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}
