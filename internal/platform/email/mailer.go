// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

/*
Package email provides outbound mail delivery for the platform.

Delivery is an external collaborator: the domain only depends on the
[Mailer] interface, and the transport (SMTP, or a structured log sink in
development) is chosen at wiring time.
*/
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers a single plain-text message to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// # SMTP Delivery

// SMTPMailer sends mail through a standard SMTP relay with PLAIN auth.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer constructs an [SMTPMailer].
//
// # Parameters
//   - host, port: SMTP relay endpoint.
//   - username, password: PLAIN credentials; empty username disables auth.
//   - from: The envelope sender address.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{
		addr: host + ":" + port,
		auth: auth,
		from: from,
	}
}

// Send delivers the message synchronously.
//
// The context is honored only up to the SMTP dial; net/smtp does not support
// mid-transaction cancellation.
func (mailer *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var message strings.Builder
	message.WriteString("From: " + mailer.from + "\r\n")
	message.WriteString("To: " + to + "\r\n")
	message.WriteString("Subject: " + subject + "\r\n")
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	if err := smtp.SendMail(mailer.addr, mailer.auth, mailer.from, []string{to}, []byte(message.String())); err != nil {
		return fmt.Errorf("email: smtp delivery failed: %w", err)
	}

	return nil
}

// # Development Delivery

// LogMailer writes outbound mail to the structured log instead of sending it.
//
// Used in development and tests where no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (mailer *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	mailer.logger.InfoContext(ctx, "email_logged_not_sent",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
