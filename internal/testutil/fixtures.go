package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	accountstore "github.com/dalemusser/campushub/internal/app/store/accounts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultPassword is the password CreateAccount gives every fixture account.
const DefaultPassword = "correct-horse-battery"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateAccount creates a credential with DefaultPassword.
func (f *Fixtures) CreateAccount(ctx context.Context, email string) models.Account {
	f.t.Helper()

	hash, err := accountstore.HashPassword(DefaultPassword)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	a := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        email,
		EmailCI:      text.Fold(strings.TrimSpace(email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "accounts", a)
	return a
}

// CreateTeacher creates an account and a matching teacher profile.
func (f *Fixtures) CreateTeacher(ctx context.Context, fullName, email string) models.Teacher {
	f.t.Helper()

	acct := f.CreateAccount(ctx, email)
	t := models.Teacher{
		ID:        acct.ID,
		FullName:  fullName,
		Email:     email,
		Subjects:  []string{"Math"},
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "teachers", t)
	return t
}

// CreateStudent creates an account and a matching student profile
// enrolled in classIDs.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, email string, classIDs ...primitive.ObjectID) models.Student {
	f.t.Helper()

	acct := f.CreateAccount(ctx, email)
	if classIDs == nil {
		classIDs = []primitive.ObjectID{}
	}
	st := models.Student{
		ID:        acct.ID,
		FullName:  fullName,
		Email:     email,
		ClassIDs:  classIDs,
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "students", st)
	return st
}

// CreateClass creates a class owned by the given teachers.
func (f *Fixtures) CreateClass(ctx context.Context, name string, teacherIDs ...primitive.ObjectID) models.Class {
	f.t.Helper()

	now := time.Now().UTC()
	id := primitive.NewObjectID()
	if teacherIDs == nil {
		teacherIDs = []primitive.ObjectID{}
	}
	c := models.Class{
		ID:         id,
		DocID:      id.Hex(),
		Name:       name,
		NameCI:     text.Fold(name),
		Capacity:   30,
		TeacherIDs: teacherIDs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "classes", c)
	return c
}

// CreateAssignment creates a pending assignment for classID.
func (f *Fixtures) CreateAssignment(ctx context.Context, title string, teacherID, classID primitive.ObjectID) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	id := primitive.NewObjectID()
	a := models.Assignment{
		ID:        id,
		DocID:     id.Hex(),
		Title:     title,
		Subject:   "Math",
		Status:    models.AssignmentPending,
		TeacherID: teacherID,
		ClassID:   classID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "assignments", a)
	return a
}

// CreatePost creates a post on classID at the given time.
func (f *Fixtures) CreatePost(ctx context.Context, title string, classID, teacherID primitive.ObjectID, at time.Time) models.Post {
	f.t.Helper()

	id := primitive.NewObjectID()
	p := models.Post{
		ID:        id,
		DocID:     id.Hex(),
		ClassID:   classID,
		Title:     title,
		Message:   "<p>" + title + "</p>",
		Type:      models.PostGeneral,
		TeacherID: teacherID,
		CreatedAt: at.UTC(),
	}
	f.insert(ctx, "posts", p)
	return p
}

// CreateMeeting creates a meeting. A nil classID leaves it unassigned.
func (f *Fixtures) CreateMeeting(ctx context.Context, title string, classID *primitive.ObjectID, createdBy string, at time.Time) models.Meeting {
	f.t.Helper()

	id := primitive.NewObjectID()
	m := models.Meeting{
		ID:          id,
		DocID:       id.Hex(),
		ClassID:     classID,
		Title:       title,
		ScheduledAt: at.UTC(),
		CreatedBy:   createdBy,
		Link:        "https://meet.google.com/abc-defg-hij",
		CreatedAt:   time.Now().UTC(),
	}
	f.insert(ctx, "meetings", m)
	return m
}

// Count returns the number of documents in coll matching filter.
func (f *Fixtures) Count(ctx context.Context, coll string, filter bson.M) int64 {
	f.t.Helper()
	if filter == nil {
		filter = bson.M{}
	}
	n, err := f.db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		f.t.Fatalf("count %s: %v", coll, err)
	}
	return n
}
