package assignmentstore_test

import (
	"errors"
	"testing"
	"time"

	assignmentstore "github.com/dalemusser/campushub/internal/app/store/assignments"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_DefaultsAndEmbeddedID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Assignment{
		Title:     "Essay",
		Subject:   "English",
		TeacherID: primitive.NewObjectID(),
		ClassID:   primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != models.AssignmentPending {
		t.Errorf("Status: got %q, want %q", got.Status, models.AssignmentPending)
	}
	if got.DocID != got.ID.Hex() {
		t.Errorf("embedded id %q != %q", got.DocID, got.ID.Hex())
	}
}

func TestStore_ListByTeacher_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teacherID := primitive.NewObjectID()
	for _, title := range []string{"first", "second", "third"} {
		if _, err := store.Create(ctx, models.Assignment{Title: title, TeacherID: teacherID}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	list, err := store.ListByTeacher(ctx, teacherID)
	if err != nil {
		t.Fatalf("ListByTeacher failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d, want 3", len(list))
	}
	if list[0].Title != "third" || list[2].Title != "first" {
		t.Errorf("expected newest first, got %q..%q", list[0].Title, list[2].Title)
	}
}

func TestStore_ListByClasses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c1, c2, c3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	for _, cid := range []primitive.ObjectID{c1, c2, c3} {
		if _, err := store.Create(ctx, models.Assignment{Title: "hw", ClassID: cid}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := store.ListByClasses(ctx, []primitive.ObjectID{c1, c3})
	if err != nil {
		t.Fatalf("ListByClasses failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d, want 2", len(list))
	}

	none, err := store.ListByClasses(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Errorf("nil classes: got %d, err %v", len(none), err)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := assignmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Assignment{Title: "Lab", TeacherID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	status := models.AssignmentGraded
	points := 10
	if err := store.Update(ctx, a.ID, assignmentstore.Update{Status: &status, Points: &points}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := store.Get(ctx, a.ID)
	if got.Status != status || got.Points == nil || *got.Points != 10 || got.Title != "Lab" {
		t.Errorf("unexpected after update: %+v", got)
	}

	if _, err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, a.ID); !errors.Is(err, assignmentstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
