// internal/app/system/mailer/mailer.go
// Package mailer sends transactional email (password resets) through a
// configured transport: SMTP, SendGrid, or the log for development.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Email is one outgoing message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Transport delivers a rendered message.
type Transport interface {
	Deliver(ctx context.Context, from Address, e Email) error
}

// Address is a sender identity.
type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

var ErrNoRecipient = errors.New("mailer: no recipient")

type Mailer struct {
	t    Transport
	from Address
	log  *zap.Logger
}

func New(t Transport, from Address, logger *zap.Logger) *Mailer {
	return &Mailer{t: t, from: from, log: logger}
}

// Send delivers e. Failures are logged and returned to the caller.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if strings.TrimSpace(e.To) == "" {
		return ErrNoRecipient
	}
	if err := m.t.Deliver(ctx, m.from, e); err != nil {
		m.log.Error("email delivery failed",
			zap.String("to", e.To),
			zap.String("subject", e.Subject),
			zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	m.log.Info("email sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

// LogTransport writes messages to the log instead of sending them.
type LogTransport struct {
	Log *zap.Logger
}

func (t LogTransport) Deliver(_ context.Context, from Address, e Email) error {
	t.Log.Info("email (log transport)",
		zap.String("from", from.String()),
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("text", e.TextBody))
	return nil
}
