// internal/app/store/audit/auditstore.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth    = "auth"
	CategoryContent = "content"
)

// Auth event types
const (
	EventLoginSuccess        = "login_success"
	EventLoginFailed         = "login_failed"
	EventLoginRateLimited    = "login_rate_limited"
	EventLoginNoProfile      = "login_no_profile"
	EventLogout              = "logout"
	EventPasswordResetSent   = "password_reset_requested"
	EventPasswordResetDone   = "password_reset_completed"
	EventPasswordResetFailed = "password_reset_failed"
)

// Content event types
const (
	EventClassCreated      = "class_created"
	EventClassUpdated      = "class_updated"
	EventClassDeleted      = "class_deleted"
	EventAssignmentCreated = "assignment_created"
	EventAssignmentUpdated = "assignment_updated"
	EventAssignmentDeleted = "assignment_deleted"
	EventPostCreated       = "post_created"
	EventPostDeleted       = "post_deleted"
	EventMeetingCreated    = "meeting_created"
	EventMeetingDeleted    = "meeting_deleted"
	EventSubmissionCreated = "submission_created"
	EventSubmissionGraded  = "submission_graded"
)

// Event is one audit record. Actor is the account id hex of whoever acted,
// or the admin username for admin-portal actions.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"event_type"`
	Portal    string `bson:"portal,omitempty" json:"portal,omitempty"`

	Actor  string `bson:"actor,omitempty" json:"actor,omitempty"`
	Target string `bson:"target,omitempty" json:"target,omitempty"` // affected document id

	IP        string `bson:"ip" json:"ip"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`

	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// QueryFilter narrows Query. Zero fields match everything.
type QueryFilter struct {
	Category  string
	EventType string
	Actor     string
	Since     *time.Time
	Limit     int64
}

func (f QueryFilter) bson() bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.EventType != "" {
		q["event_type"] = f.EventType
	}
	if f.Actor != "" {
		q["actor"] = f.Actor
	}
	if f.Since != nil {
		q["timestamp"] = bson.M{"$gte": *f.Since}
	}
	return q
}

var newestFirst = bson.D{{Key: "timestamp", Value: -1}}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query returns matching events, newest first. Limit defaults to 100.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	cur, err := s.c.Find(ctx, filter.bson(), options.Find().SetSort(newestFirst).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of matching events.
func (s *Store) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.bson())
}

// FailedLogins counts refused sign-ins (bad credentials, throttled or
// missing profile) since the given time.
func (s *Store) FailedLogins(ctx context.Context, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"category": CategoryAuth,
		"event_type": bson.M{"$in": bson.A{
			EventLoginFailed, EventLoginRateLimited, EventLoginNoProfile,
		}},
		"timestamp": bson.M{"$gte": since},
	})
}

// DeleteBefore removes events older than cutoff and returns how many went.
func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
