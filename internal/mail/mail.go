// Package mail renders and delivers transactional email.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"financeiro/internal/logger"
)

// Message is a single rendered email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers a message synchronously.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer accepts messages for asynchronous delivery.
type Mailer interface {
	Enqueue(msg Message) error
}

// SMTPSender delivers mail through an SMTP relay with PLAIN auth.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{msg.To}, s.build(msg)); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + s.from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	return []byte(b.String())
}

// LogSender writes messages to the log instead of delivering them. It is
// used when no SMTP relay is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.FromContext(ctx).Infow("Email not delivered, no SMTP relay configured",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
