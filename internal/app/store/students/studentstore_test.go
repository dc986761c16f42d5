package studentstore_test

import (
	"errors"
	"testing"

	studentstore "github.com/dalemusser/campushub/internal/app/store/students"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateGetList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Zed", "Ann"} {
		if _, err := store.Create(ctx, models.Student{ID: primitive.NewObjectID(), FullName: name}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].FullName != "Ann" {
		t.Errorf("expected name order, got %+v", list)
	}
	if list[0].ClassIDs == nil {
		t.Error("ClassIDs should default to empty, got nil")
	}

	got, err := store.Get(ctx, list[1].ID)
	if err != nil || got.FullName != "Zed" {
		t.Errorf("Get: got %+v, err %v", got, err)
	}
	if _, err := store.Get(ctx, primitive.NewObjectID()); !errors.Is(err, studentstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count: got %d, err %v", n, err)
	}
}
