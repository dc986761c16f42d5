// internal/app/store/students/studentstore.go
package studentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("student not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

// Get is the single point lookup used by the profile loader.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}
	return st, nil
}

// Create inserts a profile. Profiles come from registration, so the id is
// always supplied by the caller and must equal the account id.
func (s *Store) Create(ctx context.Context, st models.Student) (models.Student, error) {
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	if st.ClassIDs == nil {
		st.ClassIDs = []primitive.ObjectID{}
	}
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		return models.Student{}, err
	}
	return st, nil
}

// List returns every student ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Student, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Student{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
