package services

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"myblog/config"
)

// Mailer delivers a single plain-text message and reports success or failure.
// The share flow treats a failed delivery as sent=false, never as a request
// error.
type Mailer interface {
	Send(from string, to []string, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	ssl      bool
}

// NewSMTPMailer builds a mailer from SMTP_* configuration keys.
func NewSMTPMailer(c map[string]string) *SMTPMailer {
	return &SMTPMailer{
		host:     config.GetString(c, "SMTP_HOST", "localhost"),
		port:     config.GetInt(c, "SMTP_PORT", 587),
		username: config.GetString(c, "SMTP_USER", ""),
		password: config.GetString(c, "SMTP_PASSWORD", ""),
		ssl:      config.GetBool(c, "SMTP_SSL", false),
	}
}

func (m *SMTPMailer) Send(from string, to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	d.SSL = m.ssl
	if err := d.DialAndSend(msg); err != nil {
		return err
	}

	log.Info().Strs("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
