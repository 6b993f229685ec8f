package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/suwityarat/portfolio/config"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when SMTP sending is enabled without credentials.
var ErrNotConfigured = errors.New("email service not properly configured")

// Sender submits composed emails to an outbound mail service.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// NewSender returns an SMTP sender when mail is enabled, otherwise a sender
// that only logs what would have been sent.
func NewSender(cfg config.MailConfig, log *zap.Logger) Sender {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		return &LogSender{logger: log}
	}
	return &SMTPSender{cfg: cfg}
}

// SMTPSender delivers through an authenticated SMTP relay.
type SMTPSender struct {
	cfg config.MailConfig
}

func (s *SMTPSender) Send(ctx context.Context, email *Email) error {
	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := email.Bytes()
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, envelopeAddress(email.From), []string{envelopeAddress(email.To)}, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender stands in for SMTP in development.
type LogSender struct {
	logger *zap.Logger
}

func (s *LogSender) Send(_ context.Context, email *Email) error {
	s.logger.Info("email delivery disabled, logging instead",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("message_id", email.MessageID),
	)
	return nil
}
