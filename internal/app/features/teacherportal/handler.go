// internal/app/features/teacherportal/handler.go
package teacherportal

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	assignmentstore "github.com/dalemusser/campushub/internal/app/store/assignments"
	classstore "github.com/dalemusser/campushub/internal/app/store/classes"
	meetingstore "github.com/dalemusser/campushub/internal/app/store/meetings"
	poststore "github.com/dalemusser/campushub/internal/app/store/posts"
	studentstore "github.com/dalemusser/campushub/internal/app/store/students"
	submissionstore "github.com/dalemusser/campushub/internal/app/store/submissions"
	teacherstore "github.com/dalemusser/campushub/internal/app/store/teachers"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/livepush"
	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the teacher portal. Every route below the login runs with
// the signed-in teacher's profile in the request context.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Live     *livepush.Server
	Notifier livequery.Notifier

	// Now is the portal clock, already in the school's time zone.
	Now func() time.Time

	classes     *classstore.Store
	assignments *assignmentstore.Store
	posts       *poststore.Store
	meetings    *meetingstore.Store
	submissions *submissionstore.Store
	students    *studentstore.Store
	teachers    *teacherstore.Store
}

func NewHandler(
	db *mongo.Database,
	live *livepush.Server,
	notifier livequery.Notifier,
	now func() time.Time,
	auditLog *auditlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		AuditLog:    auditLog,
		Live:        live,
		Notifier:    notifier,
		Now:         now,
		classes:     classstore.New(db),
		assignments: assignmentstore.New(db),
		posts:       poststore.New(db),
		meetings:    meetingstore.New(db),
		submissions: submissionstore.New(db),
		students:    studentstore.New(db),
		teachers:    teacherstore.New(db),
	}
}

// reply answers a write: JSON callers get v with status, form posts are
// redirected to target.
func reply(w http.ResponseWriter, r *http.Request, status int, target string, v any) {
	if formutil.IsJSON(r) {
		respond.JSON(w, status, v)
		return
	}
	formutil.Redirect(w, r, target)
}
