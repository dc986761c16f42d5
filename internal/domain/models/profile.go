// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is the student-portal profile document, keyed by the account id.
type Student struct {
	ID       primitive.ObjectID   `bson:"_id" json:"id"`
	FullName string               `bson:"full_name" json:"full_name"`
	Email    string               `bson:"email" json:"email"`
	ClassIDs []primitive.ObjectID `bson:"class_ids" json:"class_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Teacher is the teacher-portal profile document, keyed by the account id.
type Teacher struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	Email    string             `bson:"email" json:"email"`
	Subjects []string           `bson:"subjects" json:"subjects"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
