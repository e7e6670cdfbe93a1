package notify

import (
	"github.com/yukikurage/project-management-api/internal/config"
	"gopkg.in/gomail.v2"
)

// SMTPMailer sends email through an SMTP relay using gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer creates a mailer from config, or nil when no SMTP host
// is configured so the dispatcher degrades to the remaining channels.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

// Send delivers one message. Errors are returned to the dispatcher,
// which logs and swallows them.
func (m *SMTPMailer) Send(subject, body, from string, to []string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
