package mutate_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/mutate"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type doc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	DocID   string             `bson:"id,omitempty"`
	Name    string             `bson:"name"`
	Version int64              `bson:"version"`
}

func TestInsert_EmbedsID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := db.Collection("things")

	id, err := mutate.Insert(ctx, c, doc{Name: "a"}, true)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	var got doc
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&got); err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if got.DocID != id.Hex() {
		t.Errorf("embedded id: got %q, want %q", got.DocID, id.Hex())
	}
}

func TestInsert_WithoutEmbed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := db.Collection("things")

	id, err := mutate.Insert(ctx, c, doc{Name: "a"}, false)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	var got doc
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&got); err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if got.DocID != "" {
		t.Errorf("expected no embedded id, got %q", got.DocID)
	}
}

func TestPatch_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := mutate.Patch(ctx, db.Collection("things"), primitive.NewObjectID(), bson.M{"name": "x"})
	if !errors.Is(err, mutate.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPatch_MergesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := db.Collection("things")

	id, err := mutate.Insert(ctx, c, doc{Name: "before"}, true)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := mutate.Patch(ctx, c, id, bson.M{"name": "after"}); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}

	var got doc
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&got); err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if got.Name != "after" {
		t.Errorf("name: got %q, want %q", got.Name, "after")
	}
	if got.DocID != id.Hex() {
		t.Error("patch should not drop other fields")
	}
}

func TestPatchVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := db.Collection("things")

	id, err := mutate.Insert(ctx, c, doc{Name: "v0"}, false)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := mutate.PatchVersion(ctx, c, id, 0, bson.M{"name": "v1"}); err != nil {
		t.Fatalf("first PatchVersion failed: %v", err)
	}

	// A writer still holding version 0 loses.
	err = mutate.PatchVersion(ctx, c, id, 0, bson.M{"name": "stale"})
	if !errors.Is(err, mutate.ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}

	err = mutate.PatchVersion(ctx, c, primitive.NewObjectID(), 0, bson.M{"name": "x"})
	if !errors.Is(err, mutate.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	var got doc
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&got); err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if got.Name != "v1" || got.Version != 1 {
		t.Errorf("got name=%q version=%d, want v1/1", got.Name, got.Version)
	}
}

func TestRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	c := db.Collection("things")

	id, err := mutate.Insert(ctx, c, doc{Name: "gone"}, false)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	n, err := mutate.Remove(ctx, c, id)
	if err != nil || n != 1 {
		t.Fatalf("Remove: n=%d err=%v", n, err)
	}
	n, err = mutate.Remove(ctx, c, id)
	if err != nil || n != 0 {
		t.Errorf("second Remove: n=%d err=%v, want 0/nil", n, err)
	}
}
