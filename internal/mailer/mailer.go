// Package mailer delivers rendered digests to their owners.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Notifier is the outbound delivery abstraction. Implementations
// report failures to the caller; retry policy does not live here.
type Notifier interface {
	Deliver(ctx context.Context, to, subject, body string) error
}

// SMTP delivers digests through a plain SMTP relay.
type SMTP struct {
	addr string
	from string
}

// Verify implementations satisfy Notifier at compile time.
var (
	_ Notifier = (*SMTP)(nil)
	_ Notifier = (*Log)(nil)
)

// NewSMTP creates a notifier that relays through addr (host:port) with
// the given envelope sender.
func NewSMTP(addr, from string) *SMTP {
	return &SMTP{addr: addr, from: from}
}

// Deliver sends one plain-text message.
func (s *SMTP) Deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := Message(s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}

// Message assembles an RFC 5322 plain-text message.
func Message(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Log is a Notifier that writes digests to the logger instead of
// sending them. Used by dry runs.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a log-only notifier.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Deliver logs the digest at info level and reports success.
func (l *Log) Deliver(_ context.Context, to, subject, body string) error {
	l.logger.Info("dry-run delivery",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body))
	return nil
}
