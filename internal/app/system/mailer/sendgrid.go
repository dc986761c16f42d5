// internal/app/system/mailer/sendgrid.go
package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendGridTransport posts messages to the SendGrid v3 mail API.
type SendGridTransport struct {
	APIKey string
	Host   string // defaults to the public API; tests point it at a local server
}

func (t SendGridTransport) prepare(from Address, e Email) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = e.Subject
	p.AddTos(sgmail.NewEmail("", e.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(from.Name, from.Email))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", e.TextBody))
	if e.HTMLBody != "" {
		m.AddContent(sgmail.NewContent("text/html", e.HTMLBody))
	}
	return m
}

func (t SendGridTransport) Deliver(_ context.Context, from Address, e Email) error {
	host := t.Host
	if host == "" {
		host = sendgridHost
	}
	req := sendgrid.GetRequest(t.APIKey, sendgridEndpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(t.prepare(from, e))

	res, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
