// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestCompose verifies headers and CRLF normalisation.
*/
func TestCompose(t *testing.T) {
	raw := string(compose("noreply@yamdb.local", Message{
		To:      "bob@x.com",
		Subject: "Your code",
		Body:    "line one\nline two",
	}))

	assert.Contains(t, raw, "From: noreply@yamdb.local\r\n")
	assert.Contains(t, raw, "To: bob@x.com\r\n")
	assert.Contains(t, raw, "Subject: Your code\r\n")
	assert.Contains(t, raw, "\r\n\r\nline one\r\nline two")
}

/*
TestLogSender verifies that the console backend records the message.
*/
func TestLogSender(t *testing.T) {
	var buffer bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buffer, nil)))

	require.NoError(t, sender.Send(context.Background(), Message{To: "bob@x.com", Subject: "s", Body: "code-123"}))
	assert.Contains(t, buffer.String(), "mail_logged")
	assert.Contains(t, buffer.String(), "code-123")
}

/*
TestSMTPSender_Unreachable verifies that relay failures propagate.
*/
func TestSMTPSender_Unreachable(t *testing.T) {
	sender := NewSMTPSender(SMTPConfig{
		Host:    "127.0.0.1",
		Port:    1,
		From:    "noreply@yamdb.local",
		Timeout: 2 * time.Second,
	})

	err := sender.Send(context.Background(), Message{To: "bob@x.com", Subject: "s", Body: "b"})
	assert.Error(t, err)
}
