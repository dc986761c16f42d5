// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// PasswordResetData holds data for the password reset email.
type PasswordResetData struct {
	SiteName  string
	ResetLink string
	ExpiresIn string // e.g., "1 hour"
}

// BuildPasswordResetEmail creates a reset email with both HTML and text bodies.
func BuildPasswordResetEmail(data PasswordResetData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Reset your %s password", data.SiteName),
		TextBody: buildResetText(data),
		HTMLBody: buildResetHTML(data),
	}
}

func buildResetText(data PasswordResetData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Someone asked to reset the password for your %s account.\n\n", data.SiteName)
	buf.WriteString("Open this link to choose a new password:\n")
	buf.WriteString(data.ResetLink + "\n\n")
	fmt.Fprintf(&buf, "The link expires in %s and works once.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not ask for this, you can ignore this email.\n")
	return buf.String()
}

var resetTmpl = template.Must(template.New("reset").Parse(resetHTMLTemplate))

func buildResetHTML(data PasswordResetData) string {
	var buf bytes.Buffer
	_ = resetTmpl.Execute(&buf, data)
	return buf.String()
}

const resetHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Password Reset</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 16px; text-align: center;">
              <h1 style="margin: 0; font-size: 22px; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 16px 32px 32px; text-align: center;">
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151;">Choose a new password for your account.</p>
              <a href="{{.ResetLink}}" style="display: inline-block; padding: 12px 28px; background-color: #0f766e; color: #ffffff; text-decoration: none; border-radius: 6px;">Reset Password</a>
              <p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af;">This link expires in {{.ExpiresIn}}.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
