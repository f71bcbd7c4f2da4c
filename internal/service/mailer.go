package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier delivers a message to an email address
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailConfig holds the SMTP settings used by MailNotifier
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// MailNotifier sends messages over SMTP
type MailNotifier struct {
	from   string
	dialer interface {
		DialAndSend(m ...*gomail.Message) error
	}
}

func NewMailNotifier(c MailConfig) *MailNotifier {
	username := c.Username
	if username == "" {
		username = c.Sender
	}

	return &MailNotifier{
		from:   c.Sender,
		dialer: gomail.NewDialer(c.Host, c.Port, username, c.Password),
	}
}

func (n *MailNotifier) Send(ctx context.Context, to, subject, body string) error {
	if to == "" || to == n.from {
		return errors.New("invalid email address")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return n.dialer.DialAndSend(m)
}

// LogNotifier writes messages to the debug log instead of sending them.
// Only meant for local development with mail disabled.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, to, subject, body string) error {
	zap.L().Debug("Mail delivery disabled, logging message instead",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)

	return nil
}
