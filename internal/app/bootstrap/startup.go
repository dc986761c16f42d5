// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/dalemusser/campushub/internal/app/system/mailer"
	"github.com/dalemusser/campushub/internal/app/system/tasks"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs after the schema is in place and before the handler is
// built. It applies timeout overrides, checks in change-stream mode that
// the deployment can open a change stream, and starts background jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts configured from env",
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("long", cur.Long))
	}

	if appCfg.LiveMode == LiveChangeStream {
		cctx, cancel := context.WithTimeout(ctx, timeouts.Short())
		defer cancel()
		cs, err := deps.MongoDatabase.Collection("classes").Watch(cctx, mongo.Pipeline{})
		if err != nil {
			logger.Error("change streams unavailable; use a replica set or live_mode=poll", zap.Error(err))
			return fmt.Errorf("live_mode=changestream: %w", err)
		}
		_ = cs.Close(cctx)
	}
	logger.Info("live views ready", zap.String("mode", appCfg.LiveMode))

	var js []tasks.Job
	if appCfg.AuditRetention > 0 {
		js = append(js, tasks.AuditRetentionJob(auditstore.New(deps.MongoDatabase), appCfg.AuditRetention, logger))
	}
	if deps.Lifecycle == nil {
		return fmt.Errorf("startup: no lifecycle; DBDeps must come from ConnectDB")
	}
	deps.Lifecycle.StartJobs(tasks.NewRunner(logger, js...))
	return nil
}

// buildNotifier picks the live-query change source for the configured mode.
func buildNotifier(appCfg AppConfig, logger *zap.Logger) livequery.Notifier {
	if appCfg.LiveMode == LivePoll {
		return livequery.Poller{Interval: appCfg.LivePollInterval}
	}
	return livequery.ChangeStreams{Log: logger}
}

// buildTransport picks the mail transport for the configured provider.
func buildTransport(appCfg AppConfig, logger *zap.Logger) mailer.Transport {
	switch appCfg.MailProvider {
	case MailSMTP:
		return mailer.SMTPTransport{
			Host: appCfg.MailSMTPHost,
			Port: appCfg.MailSMTPPort,
			User: appCfg.MailSMTPUser,
			Pass: appCfg.MailSMTPPass,
		}
	case MailSendGrid:
		return mailer.SendGridTransport{APIKey: appCfg.SendGridAPIKey}
	}
	return mailer.LogTransport{Log: logger}
}
