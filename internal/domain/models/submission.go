// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission is a student's hand-in for an assignment.
type Submission struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	DocID        string             `bson:"id,omitempty" json:"id"`
	AssignmentID primitive.ObjectID `bson:"assignment_id" json:"assignment_id"`
	StudentID    primitive.ObjectID `bson:"student_id" json:"student_id"`
	Content      string             `bson:"content,omitempty" json:"content,omitempty"`
	Grade        *string            `bson:"grade,omitempty" json:"grade,omitempty"`
	Feedback     *string            `bson:"feedback,omitempty" json:"feedback,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	GradedAt  *time.Time `bson:"graded_at,omitempty" json:"graded_at,omitempty"`
}
