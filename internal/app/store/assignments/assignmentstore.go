// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/dalemusser/campushub/internal/app/system/mutate"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("assignment not found")

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

// Create inserts the assignment with its id embedded. An empty status
// defaults to pending.
func (s *Store) Create(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	now := time.Now().UTC()
	a.ID = primitive.NilObjectID
	a.DocID = ""
	a.Title = strings.TrimSpace(a.Title)
	if a.Status == "" {
		a.Status = models.AssignmentPending
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	id, err := mutate.Insert(ctx, s.c, a, true)
	if err != nil {
		return models.Assignment{}, err
	}
	a.ID = id
	a.DocID = id.Hex()
	return a, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Assignment, error) {
	var a models.Assignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Assignment{}, ErrNotFound
		}
		return models.Assignment{}, err
	}
	return a, nil
}

// Update is a partial update; nil fields are left alone.
type Update struct {
	Title       *string
	Subject     *string
	DueAt       *time.Time
	Status      *string
	Priority    *string
	Material    *string
	Description *string
	Points      *int
	ClassID     *primitive.ObjectID
}

func (u Update) fields() bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil && strings.TrimSpace(*u.Title) != "" {
		set["title"] = strings.TrimSpace(*u.Title)
	}
	if u.Subject != nil {
		set["subject"] = *u.Subject
	}
	if u.DueAt != nil {
		set["due_at"] = u.DueAt.UTC()
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}
	if u.Material != nil {
		set["material"] = *u.Material
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Points != nil {
		set["points"] = *u.Points
	}
	if u.ClassID != nil {
		set["class_id"] = *u.ClassID
	}
	return set
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) error {
	err := mutate.Patch(ctx, s.c, id, u.fields())
	if errors.Is(err, mutate.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return mutate.Remove(ctx, s.c, id)
}

// TeacherQuery selects a teacher's assignments, newest first.
func (s *Store) TeacherQuery(teacherID primitive.ObjectID) livequery.Query {
	return livequery.Query{
		Collection: s.c,
		Filter:     bson.M{"teacher_id": teacherID},
		Sort:       newestFirst,
	}
}

// ClassesQuery selects assignments for any of the given classes, newest first.
func (s *Store) ClassesQuery(classIDs []primitive.ObjectID) livequery.Query {
	if classIDs == nil {
		classIDs = []primitive.ObjectID{}
	}
	return livequery.Query{
		Collection: s.c,
		Filter:     bson.M{"class_id": bson.M{"$in": classIDs}},
		Sort:       newestFirst,
	}
}

func (s *Store) ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]models.Assignment, error) {
	return s.list(ctx, s.TeacherQuery(teacherID))
}

func (s *Store) ListByClasses(ctx context.Context, classIDs []primitive.ObjectID) ([]models.Assignment, error) {
	return s.list(ctx, s.ClassesQuery(classIDs))
}

func (s *Store) list(ctx context.Context, q livequery.Query) ([]models.Assignment, error) {
	raws, err := q.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return livequery.Decode[models.Assignment](raws)
}
