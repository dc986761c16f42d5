// internal/app/store/posts/poststore.go
package poststore

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

var ErrNotFound = errors.New("post not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

// Create inserts the post with its id embedded. Unknown types become general.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = primitive.NilObjectID
	p.DocID = ""
	p.Title = strings.TrimSpace(p.Title)
	if !models.IsValidPostType(p.Type) {
		p.Type = models.PostGeneral
	}
	p.CreatedAt = time.Now().UTC()

	id, err := mutate.Insert(ctx, s.c, p, true)
	if err != nil {
		return models.Post{}, err
	}
	p.ID = id
	p.DocID = id.Hex()
	return p, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, err
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return mutate.Remove(ctx, s.c, id)
}

// ClassQuery selects a class's posts, newest first.
func (s *Store) ClassQuery(classID primitive.ObjectID) livequery.Query {
	return livequery.Query{
		Collection: s.c,
		Filter:     bson.M{"class_id": classID},
		Sort:       bson.D{{Key: "created_at", Value: -1}},
	}
}

func (s *Store) ListByClass(ctx context.Context, classID primitive.ObjectID) ([]models.Post, error) {
	raws, err := s.ClassQuery(classID).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return livequery.Decode[models.Post](raws)
}
