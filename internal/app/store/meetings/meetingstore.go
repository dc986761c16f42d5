// internal/app/store/meetings/meetingstore.go
package meetingstore

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

var ErrNotFound = errors.New("meeting not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meetings")}
}

func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	m.ID = primitive.NilObjectID
	m.DocID = ""
	m.Title = strings.TrimSpace(m.Title)
	m.ScheduledAt = m.ScheduledAt.UTC()
	m.CreatedAt = time.Now().UTC()

	id, err := mutate.Insert(ctx, s.c, m, true)
	if err != nil {
		return models.Meeting{}, err
	}
	m.ID = id
	m.DocID = id.Hex()
	return m, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Meeting, error) {
	var m models.Meeting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Meeting{}, ErrNotFound
		}
		return models.Meeting{}, err
	}
	return m, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return mutate.Remove(ctx, s.c, id)
}

// ListAll returns every meeting by scheduled time. There is no paging; the
// aggregators work on the whole set.
func (s *Store) ListAll(ctx context.Context) ([]models.Meeting, error) {
	q := livequery.Query{Collection: s.c, Sort: bson.D{{Key: "scheduled_at", Value: 1}}}
	raws, err := q.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return livequery.Decode[models.Meeting](raws)
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// CountUpcoming counts meetings scheduled at or after now.
func (s *Store) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"scheduled_at": bson.M{"$gte": now.UTC()}})
}
