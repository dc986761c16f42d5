// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, set := range []struct {
		name   string
		ensure func(context.Context, *mongo.Database) error
	}{
		{"accounts", ensureAccounts},
		{"students", ensureStudents},
		{"teachers", ensureTeachers},
		{"classes", ensureClasses},
		{"assignments", ensureAssignments},
		{"posts", ensurePosts},
		{"meetings", ensureMeetings},
		{"submissions", ensureSubmissions},
		{"audit_events", ensureAuditEvents},
	} {
		if err := set.ensure(ctx, db); err != nil {
			problems = append(problems, set.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isTrue(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return mongo.IsDuplicateKeyError(err)
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet makes the collection carry each desired index. An index
// with the same keys is reused when its uniqueness and name match, and is
// dropped and recreated otherwise.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isTrue(unique)))

		if ex, ok := existing[sig]; ok {
			if isTrue(unique) == isTrue(ex.Unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index")
				continue
			}
			log.Info("replacing index", zap.String("existing", ex.Name))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			log.Warn("index ensure failed", zap.Error(err))
			if isDuplicateKeyErr(err) && isTrue(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureAccounts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("accounts"), []mongo.IndexModel{
		// Sign-in looks accounts up by folded email.
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_accounts_emailci"),
		},
	})
}

func ensureStudents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("students"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "full_name", Value: 1}},
			Options: options.Index().SetName("idx_students_fullname"),
		},
		{
			Keys:    bson.D{{Key: "class_ids", Value: 1}},
			Options: options.Index().SetName("idx_students_classids"),
		},
	})
}

func ensureTeachers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("teachers"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "full_name", Value: 1}},
			Options: options.Index().SetName("idx_teachers_fullname"),
		},
	})
}

func ensureClasses(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("classes"), []mongo.IndexModel{
		// Teacher dashboard: classes I teach, by name.
		{
			Keys:    bson.D{{Key: "teacher_ids", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_classes_teacherids_nameci"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_classes_nameci__id"),
		},
	})
}

func ensureAssignments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("assignments"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "teacher_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_assignments_teacher_created"),
		},
		{
			Keys:    bson.D{{Key: "class_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_assignments_class_created"),
		},
	})
}

func ensurePosts(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("posts"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "class_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_class_created"),
		},
	})
}

func ensureMeetings(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("meetings"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "scheduled_at", Value: 1}},
			Options: options.Index().SetName("idx_meetings_scheduled"),
		},
	})
}

func ensureSubmissions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("submissions"), []mongo.IndexModel{
		// One hand-in per student and assignment.
		{
			Keys:    bson.D{{Key: "assignment_id", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_submissions_assignment_student"),
		},
		{
			Keys:    bson.D{{Key: "assignment_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_submissions_assignment_created"),
		},
		{
			Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_submissions_student_created"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "actor", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_type_timestamp"),
		},
	})
}
