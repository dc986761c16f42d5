// internal/domain/models/meeting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meeting is a scheduled video meeting, usually created through the
// calendar bridge. ClassID is nil for meetings not tied to a class.
type Meeting struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"-"`
	DocID       string              `bson:"id,omitempty" json:"id"`
	ClassID     *primitive.ObjectID `bson:"class_id,omitempty" json:"class_id,omitempty"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	ScheduledAt time.Time           `bson:"scheduled_at" json:"scheduled_at"`
	CreatedBy   string              `bson:"created_by" json:"created_by"`
	Link        string              `bson:"link" json:"link"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
