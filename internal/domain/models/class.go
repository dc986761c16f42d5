// internal/domain/models/class.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnknownClassName is shown wherever a class reference no longer resolves.
const UnknownClassName = "Unknown Class"

// Class is a teaching group owned by one or more teachers.
//
// DocID mirrors the collection key (_id) inside the document body and is
// written right after insert.
type Class struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"-"`
	DocID        string               `bson:"id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	NameCI       string               `bson:"name_ci" json:"-"`
	Capacity     int                  `bson:"capacity" json:"capacity"`
	StudentCount int                  `bson:"student_count" json:"student_count"`
	TeacherIDs   []primitive.ObjectID `bson:"teacher_ids" json:"teacher_ids"`
	Version      int64                `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ClassNames maps class ids to names for display lookups.
type ClassNames map[primitive.ObjectID]string

// NewClassNames indexes the given classes by id.
func NewClassNames(classes []Class) ClassNames {
	names := make(ClassNames, len(classes))
	for _, c := range classes {
		names[c.ID] = c.Name
	}
	return names
}

// Name returns the class name or UnknownClassName for a broken reference.
func (n ClassNames) Name(id primitive.ObjectID) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return UnknownClassName
}
