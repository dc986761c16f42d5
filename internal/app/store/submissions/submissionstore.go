// internal/app/store/submissions/submissionstore.go
package submissionstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/dalemusser/campushub/internal/app/system/mutate"
	"github.com/dalemusser/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound         = errors.New("submission not found")
	ErrAlreadySubmitted = errors.New("this assignment was already submitted")
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("submissions")}
}

// Create records a hand-in. One submission per student and assignment is
// enforced by a unique index.
func (s *Store) Create(ctx context.Context, sub models.Submission) (models.Submission, error) {
	sub.ID = primitive.NilObjectID
	sub.DocID = ""
	sub.Grade = nil
	sub.Feedback = nil
	sub.GradedAt = nil
	sub.CreatedAt = time.Now().UTC()

	id, err := mutate.Insert(ctx, s.c, sub, true)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Submission{}, ErrAlreadySubmitted
		}
		return models.Submission{}, err
	}
	sub.ID = id
	sub.DocID = id.Hex()
	return sub, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Submission, error) {
	var sub models.Submission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Submission{}, ErrNotFound
		}
		return models.Submission{}, err
	}
	return sub, nil
}

// Grade sets the grade and feedback.
func (s *Store) Grade(ctx context.Context, id primitive.ObjectID, grade, feedback string) error {
	err := mutate.Patch(ctx, s.c, id, bson.M{
		"grade":     grade,
		"feedback":  feedback,
		"graded_at": time.Now().UTC(),
	})
	if errors.Is(err, mutate.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// AssignmentQuery selects the submissions for one assignment, newest first.
func (s *Store) AssignmentQuery(assignmentID primitive.ObjectID) livequery.Query {
	return livequery.Query{
		Collection: s.c,
		Filter:     bson.M{"assignment_id": assignmentID},
		Sort:       newestFirst,
	}
}

// StudentQuery selects one student's submissions, newest first.
func (s *Store) StudentQuery(studentID primitive.ObjectID) livequery.Query {
	return livequery.Query{
		Collection: s.c,
		Filter:     bson.M{"student_id": studentID},
		Sort:       newestFirst,
	}
}

func (s *Store) ListByAssignment(ctx context.Context, assignmentID primitive.ObjectID) ([]models.Submission, error) {
	return s.list(ctx, s.AssignmentQuery(assignmentID))
}

func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Submission, error) {
	return s.list(ctx, s.StudentQuery(studentID))
}

func (s *Store) list(ctx context.Context, q livequery.Query) ([]models.Submission, error) {
	raws, err := q.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return livequery.Decode[models.Submission](raws)
}
