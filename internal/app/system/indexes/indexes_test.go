package indexes_test

import (
	"context"
	"testing"

	"github.com/dalemusser/campushub/internal/app/system/indexes"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, c *mongo.Collection) map[string]bool {
	t.Helper()
	cur, err := c.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := map[string][]string{
		"accounts":    {"uniq_accounts_emailci"},
		"classes":     {"idx_classes_teacherids_nameci", "idx_classes_nameci__id"},
		"assignments": {"idx_assignments_teacher_created", "idx_assignments_class_created"},
		"posts":       {"idx_posts_class_created"},
		"meetings":    {"idx_meetings_scheduled"},
		"submissions": {"uniq_submissions_assignment_student", "idx_submissions_student_created"},
	}
	for coll, want := range tests {
		names := indexNames(t, ctx, db.Collection(coll))
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected index %q on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_RenamesMismatchedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Same keys under an old name.
	_, err := db.Collection("meetings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "scheduled_at", Value: 1}},
		Options: options.Index().SetName("old_scheduled"),
	})
	if err != nil {
		t.Fatalf("seed index failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	names := indexNames(t, ctx, db.Collection("meetings"))
	if names["old_scheduled"] || !names["idx_meetings_scheduled"] {
		t.Errorf("expected index renamed, got %v", names)
	}
}

func TestEnsureAll_ReportsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := db.Collection("accounts")
	for i := 0; i < 2; i++ {
		if _, err := c.InsertOne(ctx, bson.M{"email_ci": "dup@example.com"}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	if err := indexes.EnsureAll(ctx, db); err == nil {
		t.Fatal("expected error for duplicate emails")
	}
}
