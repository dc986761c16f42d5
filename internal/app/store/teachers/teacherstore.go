// internal/app/store/teachers/teacherstore.go
package teacherstore

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

var ErrNotFound = errors.New("teacher not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teachers")}
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Teacher, error) {
	var t models.Teacher
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Teacher{}, ErrNotFound
		}
		return models.Teacher{}, err
	}
	return t, nil
}

// Create inserts a profile whose id equals the account id.
func (s *Store) Create(ctx context.Context, t models.Teacher) (models.Teacher, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Subjects == nil {
		t.Subjects = []string{}
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Teacher{}, err
	}
	return t, nil
}

func (s *Store) List(ctx context.Context) ([]models.Teacher, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Teacher{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// FullName resolves a teacher id (hex) to a display name. found is false
// for malformed ids and for ids with no teacher document.
func (s *Store) FullName(ctx context.Context, id string) (name string, found bool, err error) {
	oid, perr := primitive.ObjectIDFromHex(id)
	if perr != nil {
		return "", false, nil
	}
	var doc struct {
		FullName string `bson:"full_name"`
	}
	err = s.c.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"full_name": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, err
	}
	return doc.FullName, true, nil
}
