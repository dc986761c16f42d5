package teacherstore_test

import (
	"errors"
	"testing"

	teacherstore "github.com/dalemusser/campushub/internal/app/store/teachers"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_GetAndFullName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teacherstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teacher, err := store.Create(ctx, models.Teacher{
		ID:       primitive.NewObjectID(),
		FullName: "Grace Hopper",
		Email:    "grace@example.com",
		Subjects: []string{"Computing"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, teacher.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.FullName != "Grace Hopper" || len(got.Subjects) != 1 {
		t.Errorf("unexpected teacher: %+v", got)
	}

	name, found, err := store.FullName(ctx, teacher.ID.Hex())
	if err != nil || !found || name != "Grace Hopper" {
		t.Errorf("FullName: name=%q found=%v err=%v", name, found, err)
	}
}

func TestStore_FullName_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teacherstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-object-id"} {
		_, found, err := store.FullName(ctx, id)
		if err != nil {
			t.Errorf("FullName(%q) error: %v", id, err)
		}
		if found {
			t.Errorf("FullName(%q): expected not found", id)
		}
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teacherstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Get(ctx, primitive.NewObjectID())
	if !errors.Is(err, teacherstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
