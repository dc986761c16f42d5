// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the CampusHub collections (if missing) and attaches
// JSON-Schema validators. Deployments that don't support collMod or
// validators (e.g. some DocumentDB versions) are logged and skipped.
//
// Validation is "moderate": documents already in a collection that fail
// the schema are left alone until they are next updated.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Fall back to create-and-handle-race below.
		logger.Warn("list collections failed", zap.Error(err))
	}

	var problems []string
	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll, existing, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
			return
		}
		logger.Debug("validator ensured", zap.String("collection", coll))
	}

	ensure("accounts", accountsSchema())
	ensure("students", profileSchema())
	ensure("teachers", profileSchema())
	ensure("classes", classesSchema())
	ensure("assignments", assignmentsSchema())
	ensure("posts", postsSchema())
	ensure("meetings", meetingsSchema())
	ensure("submissions", submissionsSchema())

	// No validator; the collection is still created up front.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func ensureCollection(ctx context.Context, db *mongo.Database, name string, existing []string, logger *zap.Logger) error {
	if slices.Contains(existing, name) {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			return nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	logger.Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	return db.RunCommand(ctx, cmd).Decode(&out)
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank  = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	str       = bson.M{"bsonType": "string"}
	objectID  = bson.M{"bsonType": "objectId"}
	date      = bson.M{"bsonType": "date"}
	integer   = bson.M{"bsonType": bson.A{"int", "long"}}
	idList    = bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "objectId"}}
	optString = bson.M{"bsonType": bson.A{"string", "null"}}
)

func schema(required bson.A, props bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

func accountsSchema() bson.M {
	return schema(bson.A{"email", "email_ci", "password_hash"}, bson.M{
		"email":         nonBlank,
		"email_ci":      nonBlank,
		"password_hash": nonBlank,
		"created_at":    date,
		"updated_at":    date,
	})
}

// profileSchema covers both students and teachers.
func profileSchema() bson.M {
	return schema(bson.A{"full_name"}, bson.M{
		"full_name":  str,
		"email":      str,
		"class_ids":  idList,
		"subjects":   bson.M{"bsonType": bson.A{"array", "null"}, "items": str},
		"created_at": date,
	})
}

func classesSchema() bson.M {
	return schema(bson.A{"name", "name_ci", "created_at"}, bson.M{
		"id":            str,
		"name":          nonBlank,
		"name_ci":       nonBlank,
		"capacity":      integer,
		"student_count": integer,
		"teacher_ids":   idList,
		"version":       integer,
		"created_at":    date,
		"updated_at":    date,
	})
}

func assignmentsSchema() bson.M {
	return schema(bson.A{"title", "teacher_id", "class_id", "created_at"}, bson.M{
		"id":          str,
		"title":       nonBlank,
		"subject":     str,
		"due_at":      date,
		"status":      str,
		"points":      integer,
		"teacher_id":  objectID,
		"class_id":    objectID,
		"description": str,
		"created_at":  date,
		"updated_at":  date,
	})
}

func postsSchema() bson.M {
	return schema(bson.A{"class_id", "teacher_id", "type", "created_at"}, bson.M{
		"id":         str,
		"class_id":   objectID,
		"teacher_id": objectID,
		"title":      str,
		"message":    str,
		"type":       bson.M{"enum": bson.A{models.PostAnnouncement, models.PostGeneral}},
		"created_at": date,
	})
}

func meetingsSchema() bson.M {
	return schema(bson.A{"title", "scheduled_at"}, bson.M{
		"id":           str,
		"class_id":     objectID,
		"title":        nonBlank,
		"description":  str,
		"scheduled_at": date,
		"created_by":   str,
		"link":         str,
		"created_at":   date,
	})
}

func submissionsSchema() bson.M {
	return schema(bson.A{"assignment_id", "student_id", "created_at"}, bson.M{
		"id":            str,
		"assignment_id": objectID,
		"student_id":    objectID,
		"content":       str,
		"grade":         optString,
		"feedback":      optString,
		"created_at":    date,
		"graded_at":     date,
	})
}
