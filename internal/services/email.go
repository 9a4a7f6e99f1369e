package services

import (
	"fmt"
	"html"
	"net/smtp"

	"github.com/wayfarer-app/wayfarer-api/internal/config"
)

// EmailService delivers invitation notifications over SMTP. Delivery is
// best-effort: the invitation row is the source of truth, and callers treat
// a send failure as a warning, never as a reason to undo the insert.
type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

// SendInvitation delivers a trip invitation: inviter, trip, proposed role,
// the optional personal message, and the acceptance link.
func (s *EmailService) SendInvitation(to, inviterName, tripName, role string, message *string, inviteURL string) error {
	subject, body := buildInvitationEmail(inviterName, tripName, role, message, inviteURL)
	return s.Send(to, subject, body)
}

func buildInvitationEmail(inviterName, tripName, role string, message *string, inviteURL string) (subject, body string) {
	subject = fmt.Sprintf("%s invited you to plan %s together", inviterName, tripName)

	// Inviter name, trip name and message are user input going into an
	// HTML body.
	personalNote := ""
	if message != nil && *message != "" {
		personalNote = fmt.Sprintf(`<blockquote style="border-left: 3px solid #ccc; padding-left: 12px; color: #555;">%s</blockquote>`, html.EscapeString(*message))
	}

	body = fmt.Sprintf(`
		<html>
		<body>
			<h2>Trip Invitation</h2>
			<p>Hi,</p>
			<p><strong>%s</strong> has invited you to collaborate on the trip <strong>%s</strong> as a <strong>%s</strong>.</p>
			%s
			<p><a href="%s">Click here to view and respond to this invitation</a></p>
		</body>
		</html>
	`, html.EscapeString(inviterName), html.EscapeString(tripName), html.EscapeString(role), personalNote, inviteURL)

	return subject, body
}
