package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Message is a plain-text email.
type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Mailer sends email synchronously. A returned error means the message was not delivered.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	From() string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func (m *smtpMailer) From() string {
	return m.from
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("send mail %q: no recipients", msg.Subject)
	}

	from := msg.From
	if from == "" {
		from = m.from
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail %q: %w", msg.Subject, err)
	}
	return nil
}
