// Package mailer delivers the rendered digest over SMTP.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/deusflow/aidigest/internal/config"
	"github.com/deusflow/aidigest/internal/logger"
	"github.com/deusflow/aidigest/internal/metrics"
	"github.com/deusflow/aidigest/internal/retry"
)

const mimeBoundary = "boundary42"

// Mailer sends digest emails through one SMTP account. The sender
// address doubles as the authenticated user.
type Mailer struct {
	host      string
	addr      string
	username  string
	password  string
	recipient string
	retryCfg  retry.Config
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{
		host:      cfg.SMTPServer,
		addr:      cfg.SMTPAddr(),
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		recipient: cfg.RecipientEmail,
		retryCfg:  retry.Config{Attempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true},
	}
}

// Send delivers the digest, retrying transient SMTP failures. SendMail
// upgrades to STARTTLS when the server offers it.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody, plainBody string) error {
	msg := buildMessage(m.username, m.recipient, subject, htmlBody, plainBody)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	err := retry.Do(ctx, m.retryCfg, func() error {
		return smtp.SendMail(m.addr, auth, m.username, []string{m.recipient}, msg)
	})
	if err != nil {
		return fmt.Errorf("sending digest email: %w", err)
	}

	metrics.Global.IncrementDigestsSent()
	logger.Info("digest email sent", "to", m.recipient, "subject", subject)
	return nil
}

// buildMessage assembles a multipart/alternative MIME message. Plain
// text goes first, clients pick the last part they can display.
func buildMessage(from, to, subject, htmlBody, plainBody string) []byte {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/alternative; boundary=\"" + mimeBoundary + "\"\r\n")
	msg.WriteString("\r\n")

	msg.WriteString("--" + mimeBoundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(plainBody)
	msg.WriteString("\r\n")

	msg.WriteString("--" + mimeBoundary + "\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	msg.WriteString("--" + mimeBoundary + "--\r\n")
	return []byte(msg.String())
}
