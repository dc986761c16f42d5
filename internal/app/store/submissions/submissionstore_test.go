package submissionstore_test

import (
	"errors"
	"testing"

	submissionstore "github.com/dalemusser/campushub/internal/app/store/submissions"
	"github.com/dalemusser/campushub/internal/app/system/indexes"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_OncePerStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := submissionstore.New(db)

	sub := models.Submission{AssignmentID: primitive.NewObjectID(), StudentID: primitive.NewObjectID(), Content: "done"}
	if _, err := store.Create(ctx, sub); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, sub); !errors.Is(err, submissionstore.ErrAlreadySubmitted) {
		t.Errorf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestStore_Grade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := submissionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	studentID := primitive.NewObjectID()
	sub, err := store.Create(ctx, models.Submission{AssignmentID: primitive.NewObjectID(), StudentID: studentID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Grade(ctx, sub.ID, "A", "Nice work"); err != nil {
		t.Fatalf("Grade failed: %v", err)
	}

	list, err := store.ListByStudent(ctx, studentID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByStudent: got %d, err %v", len(list), err)
	}
	got := list[0]
	if got.Grade == nil || *got.Grade != "A" || got.Feedback == nil || got.GradedAt == nil {
		t.Errorf("unexpected graded submission: %+v", got)
	}

	if err := store.Grade(ctx, primitive.NewObjectID(), "B", ""); !errors.Is(err, submissionstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
