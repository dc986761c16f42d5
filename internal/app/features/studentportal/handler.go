// internal/app/features/studentportal/handler.go
package studentportal

import (
	"slices"
	"time"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	assignmentstore "github.com/dalemusser/campushub/internal/app/store/assignments"
	classstore "github.com/dalemusser/campushub/internal/app/store/classes"
	meetingstore "github.com/dalemusser/campushub/internal/app/store/meetings"
	poststore "github.com/dalemusser/campushub/internal/app/store/posts"
	submissionstore "github.com/dalemusser/campushub/internal/app/store/submissions"
	teacherstore "github.com/dalemusser/campushub/internal/app/store/teachers"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/livepush"
	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the student portal. A student sees only the classes
// listed on their profile.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Live     *livepush.Server
	Notifier livequery.Notifier
	Now      func() time.Time

	classes     *classstore.Store
	assignments *assignmentstore.Store
	posts       *poststore.Store
	meetings    *meetingstore.Store
	submissions *submissionstore.Store
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
		teachers:    teacherstore.New(db),
	}
}

func enrolled(st models.Student, classID primitive.ObjectID) bool {
	return slices.Contains(st.ClassIDs, classID)
}

// visibleMeetings keeps meetings for the student's classes and meetings
// not tied to any class.
func visibleMeetings(st models.Student, meetings []models.Meeting) []models.Meeting {
	out := make([]models.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.ClassID == nil || enrolled(st, *m.ClassID) {
			out = append(out, m)
		}
	}
	return out
}
