package platforms

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sepehrdad/Hydra-Marketing/config"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers campaign email over SMTP
type EmailSender interface {
	SendEmail(ctx context.Context, recipient, subject, htmlBody string) PublishResult
	ValidRecipient(recipient string) bool
}

type smtpEmailSender struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
}

// NewEmailSender creates an SMTP email sender
func NewEmailSender(cfg config.EmailConfig) EmailSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &smtpEmailSender{
		cfg:    cfg,
		dialer: dialer,
	}
}

// ValidRecipient checks for a parseable single email address
func (s *smtpEmailSender) ValidRecipient(recipient string) bool {
	trimmed := strings.TrimSpace(recipient)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}

// SendEmail delivers one message. SMTP failures come back as a failed
// result. gomail has no context support, so the session runs in its own
// goroutine and the context deadline bounds the wait; a session that
// outlives the deadline is abandoned to finish or fail on its own.
func (s *smtpEmailSender) SendEmail(ctx context.Context, recipient, subject, htmlBody string) PublishResult {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return failure(fmt.Sprintf("smtp: %v", err))
		}
		return PublishResult{Success: true}
	case <-ctx.Done():
		return failure(fmt.Sprintf("smtp: %v", ctx.Err()))
	}
}
