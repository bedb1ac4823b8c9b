// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// # Users

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{rows: map[string]*auth.User{}}
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.rows[username]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.rows {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	clone := *user
	m.rows[user.Username] = &clone
	return nil
}

func (m *memoryUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// # Codes

type memoryCodes struct {
	mu   sync.Mutex
	rows map[int64]auth.ConfirmationCode
}

func newMemoryCodes() *memoryCodes {
	return &memoryCodes{rows: map[int64]auth.ConfirmationCode{}}
}

func (m *memoryCodes) Replace(_ context.Context, code *auth.ConfirmationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *code
	stored.ConsumedAt = nil
	m.rows[code.UserID] = stored
	return nil
}

func (m *memoryCodes) Find(_ context.Context, userID int64) (*auth.ConfirmationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.rows[userID]
	if !ok {
		return nil, apperr.NotFound("Confirmation code")
	}
	return &code, nil
}

func (m *memoryCodes) MarkConsumed(_ context.Context, userID int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.rows[userID]
	if !ok || code.ConsumedAt != nil {
		return false, nil
	}
	code.ConsumedAt = &at
	m.rows[userID] = code
	return true, nil
}

// # Cooldown

type memoryCooldown struct {
	held map[string]bool
}

func (m *memoryCooldown) Acquire(_ context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	if m.held[key] {
		return false, window / 2, nil
	}
	m.held[key] = true
	return true, 0, nil
}

func (m *memoryCooldown) Release(_ context.Context, key string) error {
	delete(m.held, key)
	return nil
}

// # Mail & Tokens

type recordingMailer struct {
	sent []mail.Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, message mail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, message)
	return nil
}

var codePattern = regexp.MustCompile(`[0-9a-f]{64}`)

// lastCode extracts the confirmation code from the most recent message.
func (r *recordingMailer) lastCode() string {
	if len(r.sent) == 0 {
		return ""
	}
	return codePattern.FindString(r.sent[len(r.sent)-1].Body)
}

type stubTokens struct {
	subjects []sec.TokenSubject
}

func (s *stubTokens) GenerateAccessToken(subject sec.TokenSubject, _ time.Duration) (string, error) {
	s.subjects = append(s.subjects, subject)
	return fmt.Sprintf("token-%d", subject.UserID), nil
}

var errSMTPDown = errors.New("smtp: connection refused")
