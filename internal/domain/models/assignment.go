// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Known assignment statuses. Status is stored as a free-form string, so
// other values may appear in existing documents.
const (
	AssignmentPending   = "pending"
	AssignmentSubmitted = "submitted"
	AssignmentCompleted = "completed"
	AssignmentGraded    = "graded"
)

// Assignment is a piece of work a teacher sets for a class.
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	DocID       string             `bson:"id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Subject     string             `bson:"subject" json:"subject"`
	DueAt       *time.Time         `bson:"due_at,omitempty" json:"due_at,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Priority    string             `bson:"priority,omitempty" json:"priority,omitempty"`
	Material    string             `bson:"material,omitempty" json:"material,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Points      *int               `bson:"points,omitempty" json:"points,omitempty"`
	TeacherID   primitive.ObjectID `bson:"teacher_id" json:"teacher_id"`
	ClassID     primitive.ObjectID `bson:"class_id" json:"class_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
