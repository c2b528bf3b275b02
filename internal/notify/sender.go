// Package notify builds and dispatches the registration notification emails.
// Delivery is best effort: callers log failures and never surface them to the
// registrant.
package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail"
	"go.uber.org/zap"

	"github.com/kavirajan452/poel-step-registeration-form/internal/config"
)

// Attachment is an in-memory file attached to an outgoing email.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Sender dispatches a composed email to a single recipient.
type Sender interface {
	Send(ctx context.Context, to string, email Email, attachments []Attachment) error
}

// SMTPSender implements Sender over SMTP using go-mail.
type SMTPSender struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

// NewSMTPSender creates a Sender from the SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// Send delivers the email. The context is checked before dialing; go-mail owns
// the connection lifecycle after that, bounded by the configured timeout.
func (s *SMTPSender) Send(ctx context.Context, to string, email Email, attachments []Attachment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	for _, a := range attachments {
		m.AttachReader(a.Filename, bytes.NewReader(a.Data))
	}

	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.Timeout = time.Duration(s.cfg.TimeoutSec) * time.Second
	d.TLSConfig = &tls.Config{ServerName: s.cfg.Host}

	switch s.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.StartTLSPolicy = mail.NoStartTLS
	default:
		// "auto"/"starttls": go-mail negotiates STARTTLS when offered
	}

	s.log.Debug("sending email",
		zap.String("to", to),
		zap.String("subject", email.Subject),
		zap.Int("attachments", len(attachments)),
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Info("email sent", zap.String("to", to), zap.String("subject", email.Subject))
	return nil
}
