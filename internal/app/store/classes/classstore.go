// internal/app/store/classes/classstore.go
package classstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/dalemusser/campushub/internal/app/system/mutate"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("class not found")

// byName sorts classes by their folded name.
var byName = bson.D{{Key: "name_ci", Value: 1}}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("classes")}
}

// Create inserts the class and embeds its generated id in the document.
func (s *Store) Create(ctx context.Context, c models.Class) (models.Class, error) {
	now := time.Now().UTC()
	c.ID = primitive.NilObjectID
	c.DocID = ""
	c.Name = strings.TrimSpace(c.Name)
	c.NameCI = text.Fold(c.Name)
	c.Version = 0
	if c.TeacherIDs == nil {
		c.TeacherIDs = []primitive.ObjectID{}
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	id, err := mutate.Insert(ctx, s.c, c, true)
	if err != nil {
		return models.Class{}, err
	}
	c.ID = id
	c.DocID = id.Hex()
	return c, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Class, error) {
	var c models.Class
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Class{}, ErrNotFound
		}
		return models.Class{}, err
	}
	return c, nil
}

// Update is a partial update; nil fields are left alone.
type Update struct {
	Name         *string
	Capacity     *int
	StudentCount *int
	TeacherIDs   []primitive.ObjectID
}

func (u Update) fields() bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		name := strings.TrimSpace(*u.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if u.Capacity != nil {
		set["capacity"] = *u.Capacity
	}
	if u.StudentCount != nil {
		set["student_count"] = *u.StudentCount
	}
	if u.TeacherIDs != nil {
		set["teacher_ids"] = u.TeacherIDs
	}
	return set
}

// Update merges the given fields. Concurrent writers: last write wins.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) error {
	err := mutate.Patch(ctx, s.c, id, u.fields())
	if errors.Is(err, mutate.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// UpdateVersion merges the fields only if the class is still at version
// expected; it returns mutate.ErrVersionConflict otherwise.
func (s *Store) UpdateVersion(ctx context.Context, id primitive.ObjectID, expected int64, u Update) error {
	err := mutate.PatchVersion(ctx, s.c, id, expected, u.fields())
	if errors.Is(err, mutate.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Delete removes the class. Assignments and posts that reference it are
// left in place.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return mutate.Remove(ctx, s.c, id)
}

// TeacherQuery selects the classes a teacher owns, by name.
func (s *Store) TeacherQuery(teacherID primitive.ObjectID) livequery.Query {
	return livequery.Query{
		Collection: s.c,
		Filter:     bson.M{"teacher_ids": teacherID},
		Sort:       byName,
	}
}

// IDsQuery selects the given classes, by name.
func (s *Store) IDsQuery(ids []primitive.ObjectID) livequery.Query {
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	return livequery.Query{
		Collection: s.c,
		Filter:     bson.M{"_id": bson.M{"$in": ids}},
		Sort:       byName,
	}
}

func (s *Store) ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]models.Class, error) {
	return s.list(ctx, s.TeacherQuery(teacherID))
}

func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Class, error) {
	return s.list(ctx, s.IDsQuery(ids))
}

func (s *Store) ListAll(ctx context.Context) ([]models.Class, error) {
	return s.list(ctx, livequery.Query{Collection: s.c, Sort: byName})
}

// Page is one window of classes ordered by name.
type Page struct {
	Classes []models.Class
	paging.Result
	paging.Cursors
}

// ListPage returns the classes after (or before) the cursor in req.
func (s *Store) ListPage(ctx context.Context, req paging.Request) (Page, error) {
	ks := paging.ConfigureKeyset(req)
	filter := bson.M{}
	if win := ks.Window("name_ci"); win != nil {
		filter = win
	}

	cur, err := s.c.Find(ctx, filter, ks.FindOptions("name_ci"))
	if err != nil {
		return Page{}, err
	}
	var rows []models.Class
	if err := cur.All(ctx, &rows); err != nil {
		return Page{}, err
	}
	if ks.Direction == paging.Backward {
		paging.Reverse(rows)
	}

	res := paging.TrimPage(&rows, req)
	if rows == nil {
		rows = []models.Class{}
	}
	return Page{
		Classes: rows,
		Result:  res,
		Cursors: paging.BuildCursors(rows,
			func(c models.Class) string { return c.NameCI },
			func(c models.Class) primitive.ObjectID { return c.ID }),
	}, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// IsOwner reports whether teacherID is one of the class's teachers.
func (s *Store) IsOwner(ctx context.Context, id, teacherID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id, "teacher_ids": teacherID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) list(ctx context.Context, q livequery.Query) ([]models.Class, error) {
	raws, err := q.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return livequery.Decode[models.Class](raws)
}
