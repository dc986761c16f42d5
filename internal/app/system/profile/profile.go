// internal/app/system/profile/profile.go
// Package profile loads the student or teacher document that belongs to the
// signed-in account and attaches it to the request.
package profile

import (
	"context"
	"errors"
	"net/http"

	studentstore "github.com/dalemusser/campushub/internal/app/store/students"
	teacherstore "github.com/dalemusser/campushub/internal/app/store/teachers"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("profile not found")

type Loader struct {
	students *studentstore.Store
	teachers *teacherstore.Store
	sessions *auth.SessionManager
	log      *zap.Logger
}

func NewLoader(db *mongo.Database, sessions *auth.SessionManager, logger *zap.Logger) *Loader {
	return &Loader{
		students: studentstore.New(db),
		teachers: teacherstore.New(db),
		sessions: sessions,
		log:      logger,
	}
}

// Student returns the student profile keyed by the account id.
func (l *Loader) Student(ctx context.Context, accountID string) (models.Student, error) {
	id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return models.Student{}, ErrNotFound
	}
	st, err := l.students.Get(ctx, id)
	if errors.Is(err, studentstore.ErrNotFound) {
		return models.Student{}, ErrNotFound
	}
	return st, err
}

// Teacher returns the teacher profile keyed by the account id.
func (l *Loader) Teacher(ctx context.Context, accountID string) (models.Teacher, error) {
	id, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		return models.Teacher{}, ErrNotFound
	}
	t, err := l.teachers.Get(ctx, id)
	if errors.Is(err, teacherstore.ErrNotFound) {
		return models.Teacher{}, ErrNotFound
	}
	return t, err
}

type ctxKey int

const (
	studentKey ctxKey = iota
	teacherKey
)

// StudentFrom returns the profile attached by RequireStudent.
func StudentFrom(ctx context.Context) (models.Student, bool) {
	st, ok := ctx.Value(studentKey).(models.Student)
	return st, ok
}

// TeacherFrom returns the profile attached by RequireTeacher.
func TeacherFrom(ctx context.Context) (models.Teacher, bool) {
	t, ok := ctx.Value(teacherKey).(models.Teacher)
	return t, ok
}

// WithStudent attaches st to ctx.
func WithStudent(ctx context.Context, st models.Student) context.Context {
	return context.WithValue(ctx, studentKey, st)
}

// WithTeacher attaches t to ctx.
func WithTeacher(ctx context.Context, t models.Teacher) context.Context {
	return context.WithValue(ctx, teacherKey, t)
}

// RequireStudent loads the signed-in student's profile. A missing profile
// and a failed lookup are handled alike: the session is cleared and the
// caller is sent to the student login.
func (l *Loader) RequireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.CurrentUser(r)
		if !ok {
			auth.RedirectToLogin(w, r, auth.LoginPath(auth.RoleStudent))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		st, err := l.Student(ctx, u.ID)
		cancel()
		if err != nil {
			l.reject(w, r, auth.RoleStudent, u.ID, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithStudent(r.Context(), st)))
	})
}

// RequireTeacher is RequireStudent for the teacher portal.
func (l *Loader) RequireTeacher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.CurrentUser(r)
		if !ok {
			auth.RedirectToLogin(w, r, auth.LoginPath(auth.RoleTeacher))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		t, err := l.Teacher(ctx, u.ID)
		cancel()
		if err != nil {
			l.reject(w, r, auth.RoleTeacher, u.ID, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithTeacher(r.Context(), t)))
	})
}

func (l *Loader) reject(w http.ResponseWriter, r *http.Request, role, accountID string, err error) {
	l.log.Warn("profile lookup failed; signing out",
		zap.String("role", role),
		zap.String("account_id", accountID),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	if err := l.sessions.SignOut(w, r); err != nil {
		l.log.Error("clear session failed", zap.Error(err))
	}
	auth.RedirectToLogin(w, r, auth.LoginPath(role))
}
