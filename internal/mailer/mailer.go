// Package mailer delivers transactional email. Delivery is behind an
// interface so the worker can run without an SMTP relay (messages are
// then logged instead of sent).
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/avolkov/orderhub/pkg/config"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// New returns an SMTP mailer when one is configured, otherwise a logging
// fallback.
func New(cfg *config.SMTPConfig, logger *slog.Logger) Mailer {
	if cfg.Configured() {
		return &SMTPMailer{cfg: cfg}
	}
	logger.Warn("SMTP not configured, email delivery disabled")
	return &LogMailer{logger: logger}
}

type SMTPMailer struct {
	cfg *config.SMTPConfig
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(m.cfg.Addr(), auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer records outgoing mail instead of delivering it.
type LogMailer struct {
	logger *slog.Logger
}

func (m *LogMailer) Send(to, subject, body string) error {
	m.logger.Info("email suppressed", "to", to, "subject", subject)
	return nil
}
