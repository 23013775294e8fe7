package service

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender is the delivery capability the notifier depends on. Sends may
// fail; the caller decides what to do about it.
type EmailSender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, password, from string) EmailSender {
	return &smtpSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
