// internal/app/features/adminportal/handler.go
package adminportal

import (
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	auditstore "github.com/dalemusser/campushub/internal/app/store/audit"
	classstore "github.com/dalemusser/campushub/internal/app/store/classes"
	studentstore "github.com/dalemusser/campushub/internal/app/store/students"
	teacherstore "github.com/dalemusser/campushub/internal/app/store/teachers"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Credentials is the configured admin pair. Admins are not accounts.
type Credentials struct {
	Username string
	Password string
}

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	AuditLog   *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger

	creds    Credentials
	teachers *teacherstore.Store
	students *studentstore.Store
	classes  *classstore.Store
	events   *auditstore.Store
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	creds Credentials,
	limiter *ratelimit.LoginLimiter,
	auditLog *auditlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		AuditLog:   auditLog,
		ErrLog:     errLog,
		creds:      creds,
		teachers:   teacherstore.New(db),
		students:   studentstore.New(db),
		classes:    classstore.New(db),
		events:     auditstore.New(db),
	}
}
