// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	adminportalfeature "github.com/dalemusser/campushub/internal/app/features/adminportal"
	calendareventfeature "github.com/dalemusser/campushub/internal/app/features/calendarevent"
	errorsfeature "github.com/dalemusser/campushub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/campushub/internal/app/features/health"
	homefeature "github.com/dalemusser/campushub/internal/app/features/home"
	loginfeature "github.com/dalemusser/campushub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/campushub/internal/app/features/logout"
	passwordresetfeature "github.com/dalemusser/campushub/internal/app/features/passwordreset"
	seofeature "github.com/dalemusser/campushub/internal/app/features/seo"
	studentportalfeature "github.com/dalemusser/campushub/internal/app/features/studentportal"
	teacherportalfeature "github.com/dalemusser/campushub/internal/app/features/teacherportal"
	accountstore "github.com/dalemusser/campushub/internal/app/store/accounts"
	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/identity"
	"github.com/dalemusser/campushub/internal/app/system/livepush"
	"github.com/dalemusser/campushub/internal/app/system/mailer"
	"github.com/dalemusser/campushub/internal/app/system/profile"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// Shared services (session manager, identity provider, audit logger, live
// push server, login limiter) are built once here and handed to each
// portal. Mount order matters only for "/", which is mounted last so the
// router's NotFound handler is propagated to it.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	loc, err := timezones.Location(appCfg.CalendarTimeZone)
	if err != nil {
		return nil, fmt.Errorf("calendar time zone: %w", err)
	}
	now := func() time.Time { return time.Now().In(loc) }

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditAuth,
		Content: appCfg.AuditContent,
	})
	mail := mailer.New(buildTransport(appCfg, logger), mailer.Address{Email: appCfg.MailFrom, Name: appCfg.MailFromName}, logger)
	ident := identity.New(accountstore.New(db), mail, identity.Config{
		Secret:   []byte(appCfg.ResetTokenSecret),
		Expiry:   appCfg.ResetTokenExpiry,
		SiteURL:  appCfg.SiteURL,
		SiteName: appCfg.SiteName,
	}, logger)
	profiles := profile.NewLoader(db, sessionMgr, logger)
	if deps.Lifecycle == nil {
		return nil, fmt.Errorf("build handler: no lifecycle; DBDeps must come from ConnectDB")
	}
	limiter := ratelimit.NewLoginLimiter(deps.Lifecycle.Context())
	live := livepush.New(logger)
	notifier := buildNotifier(appCfg, logger)

	errorsHandler := errorsfeature.NewHandler()
	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Global auth middleware: loads SessionUser into context if logged in.
	// Each portal's Guard decides what to do with it.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.LiveMode, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	seoHandler := seofeature.NewHandler(appCfg.SiteURL, logger)
	r.Get("/robots.txt", seoHandler.ServeRobots)
	r.Get("/sitemap.xml", seoHandler.ServeSitemap)

	// Admin portal
	adminHandler := adminportalfeature.NewHandler(db, sessionMgr, adminportalfeature.Credentials{
		Username: appCfg.AdminUsername,
		Password: appCfg.AdminPassword,
	}, limiter, auditLog, errLog, logger)
	adminLogout := logoutfeature.NewHandler(auth.RoleAdmin, sessionMgr, auditLog, logger)
	r.Mount("/admin", adminportalfeature.Routes(adminHandler, adminLogout, sessionMgr))

	// Teacher portal
	teacherLogin := loginfeature.NewHandler(auth.RoleTeacher, "/teacher-portal/dashboard",
		ident, sessionMgr, profiles, limiter, auditLog, errLog, logger)
	teacherLogout := logoutfeature.NewHandler(auth.RoleTeacher, sessionMgr, auditLog, logger)
	teacherHandler := teacherportalfeature.NewHandler(db, live, notifier, now, auditLog, errLog, logger)
	r.Mount("/teacher-portal", teacherportalfeature.Routes(teacherHandler, teacherLogin, teacherLogout, sessionMgr, profiles))

	// Student portal
	studentLogin := loginfeature.NewHandler(auth.RoleStudent, "/student-portal/dashboard",
		ident, sessionMgr, profiles, limiter, auditLog, errLog, logger)
	studentLogout := logoutfeature.NewHandler(auth.RoleStudent, sessionMgr, auditLog, logger)
	studentHandler := studentportalfeature.NewHandler(db, live, notifier, now, auditLog, errLog, logger)
	r.Mount("/student-portal", studentportalfeature.Routes(studentHandler, studentLogin, studentLogout, sessionMgr, profiles))

	// Reset links mailed from any portal land here.
	resetHandler := passwordresetfeature.NewHandler(ident, auditLog, errLog, logger)
	r.Mount("/password-reset", passwordresetfeature.Routes(resetHandler))

	// Google Calendar bridge
	calendarHandler := calendareventfeature.NewHandler(calendareventfeature.Config{
		ClientID:     appCfg.GoogleClientID,
		ClientSecret: appCfg.GoogleClientSecret,
		RedirectURL:  appCfg.GoogleRedirectURI,
		TimeZone:     appCfg.CalendarTimeZone,
	}, logger)
	r.Mount("/api", calendareventfeature.Routes(calendarHandler))

	homeHandler := homefeature.NewHandler(appCfg.SiteName, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	return r, nil
}
