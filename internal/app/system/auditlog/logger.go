// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destination values for Config fields.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-in, sign-out and password reset events.
	Auth string
	// Content controls class, assignment, post, meeting and grading events.
	Content string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Portal != "" {
		fields = append(fields, zap.String("portal", event.Portal))
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Record writes event to the destinations configured for its category.
// A nil Logger is a no-op so handlers built in tests may omit it.
func (l *Logger) Record(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := All
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryContent:
		setting = l.config.Content
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if setting == All || setting == DB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, category, eventType, portal string) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		Portal:    portal,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful sign-in to portal.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, portal, actor, login string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginSuccess, portal)
	e.Actor = actor
	e.Success = true
	e.Details = map[string]string{"login": login}
	l.Record(ctx, e)
}

// LoginFailed logs refused credentials.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, portal, login, reason string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginFailed, portal)
	e.FailureReason = reason
	e.Details = map[string]string{"attempted_login": login}
	l.Record(ctx, e)
}

// LoginRateLimited logs a throttled sign-in attempt.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, portal, login string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginRateLimited, portal)
	e.FailureReason = "rate limited"
	e.Details = map[string]string{"attempted_login": login}
	l.Record(ctx, e)
}

// LoginNoProfile logs valid credentials with no profile for portal.
func (l *Logger) LoginNoProfile(ctx context.Context, r *http.Request, portal, actor string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLoginNoProfile, portal)
	e.Actor = actor
	e.FailureReason = "no " + portal + " profile"
	l.Record(ctx, e)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, portal, actor string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventLogout, portal)
	e.Actor = actor
	e.Success = true
	l.Record(ctx, e)
}

// PasswordResetRequested logs a reset request. It is recorded whether or
// not the email matched an account.
func (l *Logger) PasswordResetRequested(ctx context.Context, r *http.Request, portal, email string) {
	e := fromRequest(r, audit.CategoryAuth, audit.EventPasswordResetSent, portal)
	e.Success = true
	e.Details = map[string]string{"email": email}
	l.Record(ctx, e)
}

// PasswordReset logs the outcome of a reset confirmation.
func (l *Logger) PasswordReset(ctx context.Context, r *http.Request, err error) {
	typ := audit.EventPasswordResetDone
	if err != nil {
		typ = audit.EventPasswordResetFailed
	}
	e := fromRequest(r, audit.CategoryAuth, typ, "")
	e.Success = err == nil
	if err != nil {
		e.FailureReason = err.Error()
	}
	l.Record(ctx, e)
}

// --- Content Events ---

// Content logs a successful write by actor on the target document.
func (l *Logger) Content(ctx context.Context, r *http.Request, portal, eventType, actor, target string, details map[string]string) {
	e := fromRequest(r, audit.CategoryContent, eventType, portal)
	e.Actor = actor
	e.Target = target
	e.Success = true
	e.Details = details
	l.Record(ctx, e)
}
