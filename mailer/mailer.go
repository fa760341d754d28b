package mailer

import (
	"context"
	"fmt"
	"strings"

	"Wildography/logger"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const productName = "WildOGraphy"

// Sender delivers transactional e-mail.
type Sender interface {
	SendResetPassword(ctx context.Context, toEmail, toName, token string) error
}

// Mailer renders e-mails with hermes and sends them through SendGrid. With no
// API key it logs and drops the message.
type Mailer struct {
	apiKey      string
	from        string
	frontendURL string
}

func New(apiKey, from, frontendURL string) *Mailer {
	return &Mailer{
		apiKey:      apiKey,
		from:        from,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (m *Mailer) product() hermes.Hermes {
	return hermes.Hermes{
		Product: hermes.Product{
			Name:      productName,
			Link:      m.frontendURL,
			Copyright: "Copyright © WildOGraphy",
		},
	}
}

// ResetLink is the frontend page that consumes a reset token.
func (m *Mailer) ResetLink(token string) string {
	return fmt.Sprintf("%s/resetpassword/%s", m.frontendURL, token)
}

// ResetPasswordBody returns the HTML and plain-text bodies of the reset e-mail.
func (m *Mailer) ResetPasswordBody(toName, token string) (string, string, error) {
	email := hermes.Email{
		Body: hermes.Body{
			Name: toName,
			Intros: []string{
				"You have received this email because a password reset request for your account was received.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to reset your password:",
					Button: hermes.Button{
						Color: "#2E7D32",
						Text:  "Reset your password",
						Link:  m.ResetLink(token),
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
			Signature: "Thanks",
		},
	}

	h := m.product()
	html, err := h.GenerateHTML(email)
	if err != nil {
		return "", "", fmt.Errorf("render reset html: %w", err)
	}
	text, err := h.GeneratePlainText(email)
	if err != nil {
		return "", "", fmt.Errorf("render reset text: %w", err)
	}
	return html, text, nil
}

func (m *Mailer) SendResetPassword(ctx context.Context, toEmail, toName, token string) error {
	html, text, err := m.ResetPasswordBody(toName, token)
	if err != nil {
		return err
	}
	if m.apiKey == "" {
		logger.Get().Warn("SENDGRID_API_KEY not set, reset e-mail not sent", zap.String("to", toEmail))
		return nil
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(productName, m.from),
		"Reset Password",
		mail.NewEmail(toName, toEmail),
		text,
		html,
	)
	client := sendgrid.NewSendClient(m.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
