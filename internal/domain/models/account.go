// internal/domain/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is a sign-in credential. Its ID is the authentication identifier;
// the matching Student or Teacher profile document shares the same _id.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"` // folded for lookups
	PasswordHash string             `bson:"password_hash" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
