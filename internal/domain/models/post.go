// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post types.
const (
	PostAnnouncement = "announcement"
	PostGeneral      = "general"
)

// Post is a message on a class stream.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	DocID     string             `bson:"id,omitempty" json:"id"`
	ClassID   primitive.ObjectID `bson:"class_id" json:"class_id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"`
	TeacherID primitive.ObjectID `bson:"teacher_id" json:"teacher_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsValidPostType reports whether t is a known post type.
func IsValidPostType(t string) bool {
	return t == PostAnnouncement || t == PostGeneral
}
