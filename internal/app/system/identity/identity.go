// internal/app/system/identity/identity.go
// Package identity signs users in against the accounts collection and runs
// the emailed password-reset flow.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	accountstore "github.com/dalemusser/campushub/internal/app/store/accounts"
	"github.com/dalemusser/campushub/internal/app/system/mailer"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("reset link is invalid or has expired")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const (
	MinPasswordLength = 8
	resetAudience     = "password-reset"
)

// Sender delivers email.
type Sender interface {
	Send(ctx context.Context, e mailer.Email) error
}

// Config carries the reset-token and link settings.
type Config struct {
	Secret   []byte
	Expiry   time.Duration
	SiteURL  string
	SiteName string
}

type Provider struct {
	accounts *accountstore.Store
	mail     Sender
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

func New(accounts *accountstore.Store, mail Sender, cfg Config, logger *zap.Logger) *Provider {
	if cfg.Expiry <= 0 {
		cfg.Expiry = time.Hour
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "CampusHub"
	}
	return &Provider{accounts: accounts, mail: mail, cfg: cfg, log: logger, now: time.Now}
}

// SignIn checks email and password. Unknown emails and wrong passwords both
// return ErrInvalidCredentials.
func (p *Provider) SignIn(ctx context.Context, email, password string) (models.Account, error) {
	acct, err := p.accounts.GetByEmail(ctx, email)
	if errors.Is(err, accountstore.ErrNotFound) {
		return models.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("sign in: %w", err)
	}
	if !accountstore.CheckPassword(acct.PasswordHash, password) {
		return models.Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

type resetClaims struct {
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// fingerprint ties a token to the password hash it was issued against, so
// a successful reset invalidates every outstanding link.
func fingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}

func (p *Provider) issue(acct models.Account) (string, error) {
	now := p.now()
	claims := resetClaims{
		Fingerprint: fingerprint(acct.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        hex.EncodeToString(securecookie.GenerateRandomKey(16)),
			Subject:   acct.ID.Hex(),
			Audience:  jwt.ClaimStrings{resetAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.cfg.Expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.cfg.Secret)
}

// ResetLink builds the link mailed to the user.
func (p *Provider) ResetLink(token string) string {
	return strings.TrimRight(p.cfg.SiteURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

// RequestPasswordReset mails a reset link. Unknown emails succeed silently
// so the endpoint does not reveal which addresses have accounts.
func (p *Provider) RequestPasswordReset(ctx context.Context, email string) error {
	acct, err := p.accounts.GetByEmail(ctx, email)
	if errors.Is(err, accountstore.ErrNotFound) {
		p.log.Info("password reset for unknown email", zap.String("email", email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("password reset lookup: %w", err)
	}

	token, err := p.issue(acct)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}
	msg := mailer.BuildPasswordResetEmail(mailer.PasswordResetData{
		SiteName:  p.cfg.SiteName,
		ResetLink: p.ResetLink(token),
		ExpiresIn: humanDuration(p.cfg.Expiry),
	})
	msg.To = acct.Email
	return p.mail.Send(ctx, msg)
}

func (p *Provider) parse(token string) (*resetClaims, error) {
	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(resetAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ResetPassword sets a new password for the account named by token.
func (p *Provider) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}
	claims, err := p.parse(token)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return ErrInvalidToken
	}
	acct, err := p.accounts.GetByID(ctx, id)
	if errors.Is(err, accountstore.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("reset lookup: %w", err)
	}
	if fingerprint(acct.PasswordHash) != claims.Fingerprint {
		return ErrInvalidToken
	}

	hash, err := accountstore.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := p.accounts.SetPasswordHash(ctx, id, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	p.log.Info("password reset", zap.String("account_id", id.Hex()), zap.String("jti", claims.ID))
	return nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d%time.Hour == 0 && d >= time.Hour:
		if h := int(d / time.Hour); h > 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}
