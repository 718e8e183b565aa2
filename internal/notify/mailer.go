package notify

import (
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one plain-text email.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// LogMailer is the development fallback used when no SMTP transport is
// configured: it writes the mail to the log instead of sending it.
type LogMailer struct {
	Log zerolog.Logger
}

// Send logs the message and reports success.
func (m *LogMailer) Send(to, subject, body string) error {
	m.Log.Info().Str("to", to).Str("subject", subject).Msg(body)
	return nil
}
