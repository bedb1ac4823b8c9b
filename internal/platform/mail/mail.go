// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail delivers outgoing messages such as confirmation codes.

Two senders implement [Sender]:

  - SMTPSender: plain SMTP with optional PLAIN auth, used when SMTP_HOST is set.
  - LogSender: writes the message to the structured log (development console backend).

Delivery is attempted once. Errors propagate to the caller.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Message is a single plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a [Message].
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// # SMTP

// SMTPConfig holds the relay settings for [SMTPSender].
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	config SMTPConfig
}

// NewSMTPSender creates a sender for the given relay.
func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

// Send delivers message over SMTP. The context bounds the whole conversation.
func (sender *SMTPSender) Send(ctx context.Context, message Message) error {
	address := net.JoinHostPort(sender.config.Host, strconv.Itoa(sender.config.Port))

	var auth smtp.Auth
	if sender.config.Username != "" {
		auth = smtp.PlainAuth("", sender.config.Username, sender.config.Password, sender.config.Host)
	}

	payload := compose(sender.config.From, message)

	// net/smtp has no context support, so the send runs in a goroutine and the
	// caller stops waiting once ctx is done.
	if sender.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sender.config.Timeout)
		defer cancel()
	}

	result := make(chan error, 1)
	go func() {
		result <- smtp.SendMail(address, auth, sender.config.From, []string{message.To}, payload)
	}()

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("mail: smtp send to %s failed: %w", message.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail: smtp send to %s aborted: %w", message.To, ctx.Err())
	}
}

// compose renders an RFC 5322 message with CRLF line endings.
func compose(from string, message Message) []byte {
	var builder strings.Builder
	builder.WriteString("From: " + from + "\r\n")
	builder.WriteString("To: " + message.To + "\r\n")
	builder.WriteString("Subject: " + message.Subject + "\r\n")
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(strings.ReplaceAll(message.Body, "\n", "\r\n"))
	return []byte(builder.String())
}

// # Console

// LogSender writes messages to the log instead of sending them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a console sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message at info level. It never fails.
func (sender *LogSender) Send(ctx context.Context, message Message) error {
	sender.logger.InfoContext(ctx, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}
