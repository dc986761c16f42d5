// Package mutate holds the single-write helpers every store uses for
// create, partial update and delete.
//
// Each helper issues exactly one write (Insert with embedID issues the
// insert and then one patch). There is no retry and no transaction across
// documents; deletes never cascade.
package mutate

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EmbeddedIDField is the body field that mirrors the collection key.
const EmbeddedIDField = "id"

// VersionField is the counter used by PatchVersion.
const VersionField = "version"

var (
	// ErrNotFound is returned when an update matched no document.
	ErrNotFound = errors.New("document not found")

	// ErrVersionConflict is returned by PatchVersion when the stored version
	// is not the expected one.
	ErrVersionConflict = errors.New("document was modified by someone else")
)

// Insert writes doc and returns the generated id. With embedID the new
// document is patched so that its "id" field equals the hex of its _id.
func Insert(ctx context.Context, c *mongo.Collection, doc any, embedID bool) (primitive.ObjectID, error) {
	res, err := c.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: unexpected id type %T", c.Name(), res.InsertedID)
	}
	if !embedID {
		return id, nil
	}
	if _, err := c.UpdateByID(ctx, id, bson.M{"$set": bson.M{EmbeddedIDField: id.Hex()}}); err != nil {
		return id, fmt.Errorf("embed id into %s/%s: %w", c.Name(), id.Hex(), err)
	}
	return id, nil
}

// Patch merges fields into the document. Last write wins.
func Patch(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, fields bson.M) error {
	if len(fields) == 0 {
		return nil
	}
	res, err := c.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PatchVersion merges fields only if the stored version equals expected,
// and bumps the version. It distinguishes a missing document from a stale
// version.
func PatchVersion(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, expected int64, fields bson.M) error {
	update := bson.M{"$inc": bson.M{VersionField: 1}}
	if len(fields) > 0 {
		update["$set"] = fields
	}
	res, err := c.UpdateOne(ctx, bson.M{"_id": id, VersionField: expected}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

// Remove deletes the document unconditionally and reports how many were
// removed (0 or 1).
func Remove(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) (int64, error) {
	res, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
