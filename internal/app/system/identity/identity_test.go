package identity_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	accountstore "github.com/dalemusser/campushub/internal/app/store/accounts"
	"github.com/dalemusser/campushub/internal/app/system/identity"
	"github.com/dalemusser/campushub/internal/app/system/mailer"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type outbox struct{ sent []mailer.Email }

func (o *outbox) Send(_ context.Context, e mailer.Email) error {
	o.sent = append(o.sent, e)
	return nil
}

// tokenFrom pulls the token query parameter out of the reset email.
func tokenFrom(t *testing.T, e mailer.Email) string {
	t.Helper()
	for _, line := range strings.Split(e.TextBody, "\n") {
		if strings.HasPrefix(line, "http") {
			u, err := url.Parse(strings.TrimSpace(line))
			if err != nil {
				t.Fatalf("bad link %q: %v", line, err)
			}
			return u.Query().Get("token")
		}
	}
	t.Fatal("no reset link in email")
	return ""
}

func newProvider(t *testing.T, box *outbox) (*identity.Provider, *accountstore.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	accounts := accountstore.New(db)
	p := identity.New(accounts, box, identity.Config{
		Secret:  []byte("reset-secret-for-tests-only-32chars!"),
		Expiry:  time.Hour,
		SiteURL: "https://campus.example.com/",
	}, zap.NewNop())
	return p, accounts
}

func TestSignIn(t *testing.T) {
	p, accounts := newProvider(t, &outbox{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	if _, err := accounts.Create(ctx, id, "kim@example.com", "correct-horse"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	acct, err := p.SignIn(ctx, "Kim@Example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if acct.ID != id {
		t.Errorf("ID: got %v, want %v", acct.ID, id)
	}

	if _, err := p.SignIn(ctx, "kim@example.com", "wrong"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := p.SignIn(ctx, "nobody@example.com", "x"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestPasswordReset_SingleUse(t *testing.T) {
	box := &outbox{}
	p, accounts := newProvider(t, box)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := accounts.Create(ctx, primitive.NilObjectID, "ana@example.com", "old-password"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := p.RequestPasswordReset(ctx, "ana@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if len(box.sent) != 1 || box.sent[0].To != "ana@example.com" {
		t.Fatalf("expected one email to ana, got %+v", box.sent)
	}
	if !strings.Contains(box.sent[0].TextBody, "https://campus.example.com/reset-password?token=") {
		t.Errorf("unexpected link in %q", box.sent[0].TextBody)
	}
	token := tokenFrom(t, box.sent[0])

	if err := p.ResetPassword(ctx, token, "short"); !errors.Is(err, identity.ErrWeakPassword) {
		t.Errorf("short password: got %v", err)
	}
	if err := p.ResetPassword(ctx, token, "new-password"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}
	if _, err := p.SignIn(ctx, "ana@example.com", "new-password"); err != nil {
		t.Errorf("sign in with new password: %v", err)
	}

	// The hash changed, so the same link no longer works.
	if err := p.ResetPassword(ctx, token, "another-password"); !errors.Is(err, identity.ErrInvalidToken) {
		t.Errorf("reused token: got %v", err)
	}
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	box := &outbox{}
	p, _ := newProvider(t, box)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := p.RequestPasswordReset(ctx, "ghost@example.com"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if len(box.sent) != 0 {
		t.Errorf("expected no email, got %d", len(box.sent))
	}
}

func TestResetPassword_Garbage(t *testing.T) {
	p, _ := newProvider(t, &outbox{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := p.ResetPassword(ctx, "not-a-jwt", "long-enough-pass"); !errors.Is(err, identity.ErrInvalidToken) {
		t.Errorf("got %v", err)
	}
}
