// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider mints signed access tokens.
type TokenProvider interface {
	GenerateAccessToken(subject sec.TokenSubject, timeToLive time.Duration) (string, error)
}

// Settings tune the confirmation-code policy.
type Settings struct {
	// AccessTokenTTL is the lifetime of tokens issued by [Service.IssueToken].
	AccessTokenTTL time.Duration
	// SingleUse rejects a code once it has been exchanged for a token.
	SingleUse bool
	// SignupCooldown is the minimum delay between two signups for one email.
	// Zero disables the cooldown.
	SignupCooldown time.Duration
}

// Service implements the signup and token exchange use cases.
type Service struct {
	userRepository     UserRepository
	codeRepository     CodeRepository
	cooldownRepository CooldownRepository
	mailer             mail.Sender
	tokenProvider      TokenProvider
	settings           Settings
	logger             *slog.Logger
	now                func() time.Time
}

// NewService constructs a new [Service]. cooldownRepo may be nil, which
// disables the signup cooldown regardless of settings.
func NewService(
	userRepo UserRepository,
	codeRepo CodeRepository,
	cooldownRepo CooldownRepository,
	mailer mail.Sender,
	tokenProv TokenProvider,
	settings Settings,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:     userRepo,
		codeRepository:     codeRepo,
		cooldownRepository: cooldownRepo,
		mailer:             mailer,
		tokenProvider:      tokenProv,
		settings:           settings,
		logger:             logger,
		now:                time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Signup Flow

// SignupInput is the identity pair a caller claims.
type SignupInput struct {
	Username string
	Email    string
}

// ValidateIdentity applies the username and email rules shared by signup and
// user administration.
func ValidateIdentity(validator *validate.Validator, username, email string) *validate.Validator {
	return ValidateEmail(ValidateUsername(validator, username), email)
}

// ValidateUsername applies the username rules, including the reserved name.
func ValidateUsername(validator *validate.Validator, username string) *validate.Validator {
	return validator.
		Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Username(FieldUsername, username)
}

// ValidateEmail applies the email rules.
func ValidateEmail(validator *validate.Validator, email string) *validate.Validator {
	return validator.
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		Email(FieldEmail, email)
}

/*
RequestSignup registers an identity or resends the code of an existing one.

Description: An exact (username, email) match is a resend: the code is
regenerated and mailed again, no account is created. A username or email owned
by a different identity is a validation error. Otherwise a new account with the
user role is created and its first code is mailed.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The created or existing account
  - error: ValidationError, RateLimited, mail or storage failures
*/
func (service *Service) RequestSignup(context context.Context, input SignupInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := ValidateIdentity(&validate.Validator{}, input.Username, input.Email).Err(); err != nil {
		return nil, err
	}

	// ── 1. Identity Resolution ────────────────────────────────────────────
	user, isResend, err := service.resolveIdentity(context, input)
	if err != nil {
		return nil, err
	}

	// ── 2. Resend Cooldown ────────────────────────────────────────────────
	held, err := service.acquireCooldown(context, input.Email)
	if err != nil {
		return nil, err
	}

	// ── 3. Account Creation & Code Delivery ───────────────────────────────
	user, err = service.deliver(context, user, input, isResend)
	if err != nil {
		// A failed attempt must not lock the caller out of retrying.
		if held {
			service.releaseCooldown(context, input.Email)
		}
		return nil, err
	}

	return user, nil
}

// deliver creates the account when needed, then issues and mails its code.
func (service *Service) deliver(context context.Context, user *User, input SignupInput, isResend bool) (*User, error) {
	if !isResend {
		user = &User{
			Username: input.Username,
			Email:    input.Email,
			Role:     sec.RoleUser,
		}
		if err := service.userRepository.Create(context, user); err != nil {
			return nil, fmt.Errorf("auth_service_signup_create_failed: %w", err)
		}
		service.logger.InfoContext(context, "user_signed_up",
			slog.Int64("user_id", user.ID),
			slog.String("username", user.Username),
		)
	}

	code, err := service.IssueCode(context, user)
	if err != nil {
		return nil, err
	}

	if err := service.mailer.Send(context, confirmationMessage(user, code)); err != nil {
		return nil, fmt.Errorf("auth_service_signup_mail_failed: %w", err)
	}

	service.logger.InfoContext(context, "signup_code_sent",
		slog.Int64("user_id", user.ID),
		slog.Bool("resend", isResend),
	)

	return user, nil
}

// resolveIdentity classifies the input as new, resend or collision.
func (service *Service) resolveIdentity(context context.Context, input SignupInput) (*User, bool, error) {
	byUsername, err := service.findOptional(service.userRepository.FindByUsername(context, input.Username))
	if err != nil {
		return nil, false, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	if byUsername != nil && byUsername.Email == input.Email {
		return byUsername, true, nil
	}

	byEmail, err := service.findOptional(service.userRepository.FindByEmail(context, input.Email))
	if err != nil {
		return nil, false, fmt.Errorf("auth_service_signup_lookup_failed: %w", err)
	}

	validator := &validate.Validator{}
	validator.
		Custom(FieldUsername, byUsername != nil, "A user with that username already exists").
		Custom(FieldEmail, byEmail != nil, "A user with that email already exists")

	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	return nil, false, nil
}

// findOptional turns a NOT_FOUND lookup into (nil, nil).
func (service *Service) findOptional(user *User, err error) (*User, error) {
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, nil
	}
	return user, err
}

// acquireCooldown enforces the per-email resend window when configured.
// It reports whether this call now holds the window.
func (service *Service) acquireCooldown(context context.Context, email string) (bool, error) {
	if service.cooldownRepository == nil || service.settings.SignupCooldown <= 0 {
		return false, nil
	}

	acquired, remaining, err := service.cooldownRepository.Acquire(context, cooldownKey(email), service.settings.SignupCooldown)
	if err != nil {
		return false, fmt.Errorf("auth_service_cooldown_failed: %w", err)
	}

	if !acquired {
		return false, apperr.RateLimited(int(math.Ceil(remaining.Seconds())))
	}

	return true, nil
}

// releaseCooldown frees the window after a failed signup. Failures are logged
// only; the window then simply runs out.
func (service *Service) releaseCooldown(context context.Context, email string) {
	if err := service.cooldownRepository.Release(context, cooldownKey(email)); err != nil {
		service.logger.WarnContext(context, "signup_cooldown_release_failed", slog.Any("error", err))
	}
}

func cooldownKey(email string) string {
	return constants.RedisPrefixSignupCooldown + strings.ToLower(email)
}

/*
IssueCode generates a fresh confirmation code for user and stores its hash,
replacing any previous code.

Returns:
  - string: The plain code, to be delivered out of band
  - error: Generation or storage failures
*/
func (service *Service) IssueCode(context context.Context, user *User) (string, error) {
	code, err := sec.GenerateSecureToken(constants.ConfirmationCodeBytes)
	if err != nil {
		return "", fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	hash, err := sec.HashSecret(code)
	if err != nil {
		return "", fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	record := &ConfirmationCode{
		UserID:   user.ID,
		CodeHash: hash,
		IssuedAt: service.now(),
	}
	if err := service.codeRepository.Replace(context, record); err != nil {
		return "", fmt.Errorf("auth_service_code_store_failed: %w", err)
	}

	return code, nil
}

func confirmationMessage(user *User, code string) mail.Message {
	return mail.Message{
		To:      user.Email,
		Subject: "YaMDb confirmation code",
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour confirmation code is:\n\n%s\n\nExchange it for an access token at POST /api/v1/auth/token.\n",
			user.Username, code,
		),
	}
}

// # Token Exchange

// TokenInput is the (username, code) pair exchanged for an access token.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
IssueToken exchanges a confirmation code for a signed access token.

Description: The token subject is the user ID; claims carry username, role and
the superuser flag. The first successful exchange records consumption. When
single-use is enabled, later exchanges of the same code are rejected.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - string: Signed access token
  - error: ValidationError, NotFound (unknown username) or internal failures
*/
func (service *Service) IssueToken(context context.Context, input TokenInput) (string, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)

	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_lookup_failed: %w", err)
	}

	invalidCode := validate.FieldError(FieldConfirmationCode, "Invalid confirmation code")

	stored, err := service.codeRepository.Find(context, user.ID)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return "", invalidCode
	}
	if err != nil {
		return "", fmt.Errorf("auth_service_token_code_lookup_failed: %w", err)
	}

	if !sec.CheckSecretHash(input.ConfirmationCode, stored.CodeHash) {
		service.logger.WarnContext(context, "confirmation_code_mismatch", slog.Int64("user_id", user.ID))
		return "", invalidCode
	}

	consumed, err := service.codeRepository.MarkConsumed(context, user.ID, service.now())
	if err != nil {
		return "", fmt.Errorf("auth_service_token_consume_failed: %w", err)
	}

	if !consumed && service.settings.SingleUse {
		return "", validate.FieldError(FieldConfirmationCode, "Confirmation code has already been used")
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.TokenSubject(), service.settings.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.InfoContext(context, "access_token_issued",
		slog.Int64("user_id", user.ID),
		slog.Bool("code_reused", !consumed),
	)

	return token, nil
}
