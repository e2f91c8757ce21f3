package infra

import (
	"context"

	gomail "gopkg.in/gomail.v2"
)

type Mail struct {
	To      string
	Subject string
	HTML    string
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer sends through a plain SMTP relay. from is the full
// RFC 5322 sender, e.g. `"Shop Name" <orders@shop.example>`.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.HTML)
	return m.dialer.DialAndSend(msg)
}
