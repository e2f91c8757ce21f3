package infra

import "context"

type MailerInterface interface {
	Send(ctx context.Context, mail Mail) error
}

var _ MailerInterface = (*SMTPMailer)(nil)
