// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds CampusHub's configuration, loaded in LoadConfig from
// config files, .env, CAMPUSHUB_* environment variables and flags.
//
// WAFFLE's CoreConfig carries the framework settings (ports, TLS, logging,
// CORS, body limits). Everything specific to the portals lives here and is
// handed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookie
	SessionKey    string        // signing key (must be strong in production)
	SessionName   string        // cookie name (default: campushub-session)
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration // lifetime of a "remember me" cookie

	// Admin portal credentials. Admins have no account document.
	AdminUsername string
	AdminPassword string

	// Public site
	SiteURL  string // used in reset links and the sitemap
	SiteName string

	// Google OAuth client used by the calendar event bridge
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	CalendarTimeZone   string // IANA zone for created events and "today"

	// Password reset tokens
	ResetTokenSecret string
	ResetTokenExpiry time.Duration

	// Outgoing mail
	MailProvider   string // "log", "smtp" or "sendgrid"
	MailSMTPHost   string
	MailSMTPPort   int
	MailSMTPUser   string
	MailSMTPPass   string
	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	// Audit trail destinations: "all", "db", "log" or "off"
	AuditAuth      string
	AuditContent   string
	AuditRetention time.Duration // events older than this are pruned; 0 keeps them

	// Live views
	LiveMode         string // "changestream" or "poll"
	LivePollInterval time.Duration
}
