package mailer

import (
	"context"

	"gopkg.in/gomail.v2"
)

// Ensure SMTP implements Provider
var _ Provider = (*SMTP)(nil)

type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (s *SMTP) Name() string { return "smtp" }

// Deliver sends an HTML message. The dialer has no context support, so ctx
// only bounds how long we wait for it.
func (s *SMTP) Deliver(ctx context.Context, msg Message) (string, any, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return "", nil, err
		}
		return "", map[string]string{"provider": "smtp", "to": msg.To}, nil
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}
