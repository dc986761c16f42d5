package accountstore_test

import (
	"errors"
	"testing"

	accountstore "github.com/dalemusser/campushub/internal/app/store/accounts"
	"github.com/dalemusser/campushub/internal/app/system/indexes"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	created, err := store.Create(ctx, id, "  Ada@Example.com ", "s3cret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != id {
		t.Errorf("ID: got %v, want %v", created.ID, id)
	}
	if created.PasswordHash == "s3cret-pass" || created.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}

	got, err := store.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != id {
		t.Errorf("GetByEmail ID: got %v, want %v", got.ID, id)
	}
	if !accountstore.CheckPassword(got.PasswordHash, "s3cret-pass") {
		t.Error("expected stored hash to match password")
	}
	if accountstore.CheckPassword(got.PasswordHash, "wrong") {
		t.Error("expected wrong password to be rejected")
	}
}

func TestStore_GetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, accountstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := accountstore.New(db)

	if _, err := store.Create(ctx, primitive.NilObjectID, "dup@example.com", "pw-one-111"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, primitive.NilObjectID, "DUP@example.com", "pw-two-222")
	if !errors.Is(err, accountstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_SetPasswordHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, primitive.NilObjectID, "reset@example.com", "old-password")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	hash, err := accountstore.HashPassword("new-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if err := store.SetPasswordHash(ctx, a.ID, hash); err != nil {
		t.Fatalf("SetPasswordHash failed: %v", err)
	}
	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !accountstore.CheckPassword(got.PasswordHash, "new-password") {
		t.Error("expected new password to match")
	}

	if err := store.SetPasswordHash(ctx, primitive.NewObjectID(), hash); !errors.Is(err, accountstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}
