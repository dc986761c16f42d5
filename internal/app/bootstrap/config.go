// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"slices"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	defaultSessionKey    = "dev-only-change-me-please-0123456789ABCDEF"
	defaultResetSecret   = "dev-only-reset-secret-change-me-0123456789"
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"

	LiveChangeStream = "changestream"
	LivePoll         = "poll"

	MailLog      = "log"
	MailSMTP     = "smtp"
	MailSendGrid = "sendgrid"
)

// appConfigKeys defines the configuration keys for CampusHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CAMPUSHUB_MONGO_URI, CAMPUSHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campushub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: defaultSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "campushub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Lifetime of a remembered session (e.g., 720h)"},

	{Name: "admin_username", Default: defaultAdminUsername, Desc: "Admin portal username"},
	{Name: "admin_password", Default: defaultAdminPassword, Desc: "Admin portal password"},

	{Name: "site_url", Default: "http://localhost:3000", Desc: "Public base URL for links and the sitemap"},
	{Name: "site_name", Default: "CampusHub", Desc: "Display name used in emails"},

	// Google OAuth / Calendar
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "google_redirect_uri", Default: "", Desc: "Google OAuth2 redirect URI"},
	{Name: "calendar_time_zone", Default: "America/Chicago", Desc: "Time zone for calendar events and today's meetings"},

	// Password reset
	{Name: "reset_token_secret", Default: defaultResetSecret, Desc: "HMAC secret for password reset tokens"},
	{Name: "reset_token_expiry", Default: "1h", Desc: "Password reset link lifetime"},

	// Email
	{Name: "mail_provider", Default: MailLog, Desc: "Mail transport: 'log', 'smtp' or 'sendgrid'"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "sendgrid_api_key", Default: "", Desc: "SendGrid API key (mail_provider=sendgrid)"},
	{Name: "mail_from", Default: "noreply@campushub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "CampusHub", Desc: "From display name"},

	// Audit logging
	{Name: "audit_auth", Default: auditlog.All, Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_content", Default: auditlog.All, Desc: "Content event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "Delete audit events older than this (0 keeps them forever)"},

	// Live views
	{Name: "live_mode", Default: LiveChangeStream, Desc: "Live view source: 'changestream' (replica set) or 'poll'"},
	{Name: "live_poll_interval", Default: "2s", Desc: "Re-query interval when live_mode=poll"},
}

// LoadConfig loads WAFFLE core config and CampusHub's app config.
//
// Precedence is flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, v, err := config.LoadWithAppConfig(logger, "CAMPUSHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         v.String("mongo_uri"),
		MongoDatabase:    v.String("mongo_database"),
		MongoMaxPoolSize: uint64(v.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(v.Int("mongo_min_pool_size")),

		SessionKey:    v.String("session_key"),
		SessionName:   v.String("session_name"),
		SessionDomain: v.String("session_domain"),
		SessionMaxAge: v.Duration("session_max_age", 30*24*time.Hour),

		AdminUsername: v.String("admin_username"),
		AdminPassword: v.String("admin_password"),

		SiteURL:  v.String("site_url"),
		SiteName: v.String("site_name"),

		GoogleClientID:     v.String("google_client_id"),
		GoogleClientSecret: v.String("google_client_secret"),
		GoogleRedirectURI:  v.String("google_redirect_uri"),
		CalendarTimeZone:   v.String("calendar_time_zone"),

		ResetTokenSecret: v.String("reset_token_secret"),
		ResetTokenExpiry: v.Duration("reset_token_expiry", time.Hour),

		MailProvider:   v.String("mail_provider"),
		MailSMTPHost:   v.String("mail_smtp_host"),
		MailSMTPPort:   v.Int("mail_smtp_port"),
		MailSMTPUser:   v.String("mail_smtp_user"),
		MailSMTPPass:   v.String("mail_smtp_pass"),
		SendGridAPIKey: v.String("sendgrid_api_key"),
		MailFrom:       v.String("mail_from"),
		MailFromName:   v.String("mail_from_name"),

		AuditAuth:      v.String("audit_auth"),
		AuditContent:   v.String("audit_content"),
		AuditRetention: v.Duration("audit_retention", 90*24*time.Hour),

		LiveMode:         v.String("live_mode"),
		LivePollInterval: v.Duration("live_poll_interval", 2*time.Second),
	}

	return coreCfg, appCfg, nil
}

var auditSettings = []string{auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off}

// ValidateConfig rejects configurations that cannot run. In prod it also
// refuses the development defaults for secrets and admin credentials.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.LiveMode {
	case LiveChangeStream:
	case LivePoll:
		if appCfg.LivePollInterval < 100*time.Millisecond {
			return fmt.Errorf("live_poll_interval %s is too short (minimum 100ms)", appCfg.LivePollInterval)
		}
	default:
		return fmt.Errorf("live_mode must be %q or %q, got %q", LiveChangeStream, LivePoll, appCfg.LiveMode)
	}

	switch appCfg.MailProvider {
	case MailLog, MailSMTP:
	case MailSendGrid:
		if appCfg.SendGridAPIKey == "" {
			return fmt.Errorf("mail_provider=sendgrid requires sendgrid_api_key")
		}
	default:
		return fmt.Errorf("mail_provider must be one of log, smtp, sendgrid; got %q", appCfg.MailProvider)
	}

	if !timezones.Valid(appCfg.CalendarTimeZone) {
		return fmt.Errorf("calendar_time_zone %q is not a supported time zone", appCfg.CalendarTimeZone)
	}
	for key, val := range map[string]string{"audit_auth": appCfg.AuditAuth, "audit_content": appCfg.AuditContent} {
		if val != "" && !slices.Contains(auditSettings, val) {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, val)
		}
	}
	if appCfg.AuditRetention < 0 {
		return fmt.Errorf("audit_retention must not be negative")
	}
	if appCfg.AdminUsername == "" || appCfg.AdminPassword == "" {
		return fmt.Errorf("admin_username and admin_password are required")
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == defaultSessionKey {
			return fmt.Errorf("session_key must be changed from the development default in prod")
		}
		if appCfg.ResetTokenSecret == defaultResetSecret {
			return fmt.Errorf("reset_token_secret must be changed from the development default in prod")
		}
		if appCfg.AdminUsername == defaultAdminUsername && appCfg.AdminPassword == defaultAdminPassword {
			return fmt.Errorf("admin credentials must be changed from the development default in prod")
		}
	}
	if appCfg.GoogleClientID == "" || appCfg.GoogleClientSecret == "" {
		logger.Warn("Google OAuth client not configured; calendar event creation will fail")
	}

	return nil
}
