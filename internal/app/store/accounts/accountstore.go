// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// Create stores a new account with a bcrypt hash of password. A zero id
// gets a generated one; callers creating a profile at the same time pass
// the profile id so both share it.
func (s *Store) Create(ctx context.Context, id primitive.ObjectID, email, password string) (models.Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.Account{}, err
	}
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	a := models.Account{
		ID:           id,
		Email:        strings.TrimSpace(email),
		EmailCI:      text.Fold(strings.TrimSpace(email)),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}

// GetByEmail looks the account up by case-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var a models.Account
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(strings.TrimSpace(email))}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}

// SetPasswordHash replaces the stored hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// HashPassword returns the bcrypt hash used for stored credentials.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
