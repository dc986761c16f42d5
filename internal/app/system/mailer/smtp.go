// internal/app/system/mailer/smtp.go
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
)

// SMTPTransport sends through a plain SMTP relay with optional PLAIN auth.
type SMTPTransport struct {
	Host string
	Port int
	User string
	Pass string
}

func (t SMTPTransport) Deliver(ctx context.Context, from Address, e Email) error {
	msg, err := buildMIME(from, e)
	if err != nil {
		return err
	}
	addr := net.JoinHostPort(t.Host, strconv.Itoa(t.Port))

	var auth smtp.Auth
	if t.User != "" {
		auth = smtp.PlainAuth("", t.User, t.Pass, t.Host)
	}

	done := make(chan error, 1)
	go func() { done <- smtp.SendMail(addr, auth, from.Email, []string{e.To}, msg) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildMIME renders a multipart/alternative message with text and HTML parts.
func buildMIME(from Address, e Email) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct{ ctype, content string }{
		{"text/plain; charset=UTF-8", e.TextBody},
		{"text/html; charset=UTF-8", e.HTMLBody},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.ctype}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from.String())
	fmt.Fprintf(&msg, "To: %s\r\n", e.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", e.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}
