// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// CodeIssuer replaces a user's confirmation code and returns the plain value.
type CodeIssuer interface {
	IssueCode(context context.Context, user *auth.User) (string, error)
}

// Service orchestrates account administration and profile updates.
type Service struct {
	repository Repository
	codes      CodeIssuer
	roles      RoleCache
	logger     *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(repo Repository, codes CodeIssuer, logger *slog.Logger) *Service {
	return &Service{repository: repo, codes: codes, logger: logger}
}

// WithRoleCache puts cache in front of [Service.ResolveRole].
func (service *Service) WithRoleCache(cache RoleCache) *Service {
	service.roles = cache
	return service
}

// # Inputs

// CreateInput carries the fields of an admin-created account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	// Role defaults to user when empty.
	Role string
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// # Admin Operations

// List returns a page of accounts and the total match count.
func (service *Service) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return service.repository.List(context, filter)
}

// Get returns the account with the given username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.repository.FindByUsername(context, username)
}

/*
Create registers an account on behalf of an administrator.

Description: Username and email follow the signup rules. No confirmation code
is issued; the user obtains one through the regular signup endpoint.

Returns:
  - *auth.User: The persisted account
  - error: ValidationError for bad input or identity collisions
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := auth.ValidateIdentity(&validate.Validator{}, input.Username, input.Email)
	validateProfile(validator, &input.FirstName, &input.LastName, &input.Bio)
	validator.OneOf(auth.FieldRole, input.Role, sec.RoleNames()...)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_created",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// Update applies a partial update to the account with the given username.
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input)
}

// Delete removes the account with the given username.
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}
	service.invalidateRole(context, user.ID)

	service.logger.InfoContext(context, "user_deleted", slog.Int64("user_id", user.ID))
	return nil
}

// # Self Operations

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, userID int64) (*auth.User, error) {
	return service.repository.FindByID(context, userID)
}

// UpdateMe applies a partial update to the caller's own account. A supplied
// role is ignored.
func (service *Service) UpdateMe(context context.Context, userID int64, input UpdateInput) (*auth.User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	input.Role = nil
	return service.apply(context, user, input)
}

// apply validates the supplied fields, each with its full rule, then persists.
func (service *Service) apply(context context.Context, user *auth.User, input UpdateInput) (*auth.User, error) {
	validator := &validate.Validator{}

	if input.Username != nil {
		*input.Username = strings.TrimSpace(*input.Username)
		auth.ValidateUsername(validator, *input.Username)
	}
	if input.Email != nil {
		*input.Email = strings.TrimSpace(*input.Email)
		auth.ValidateEmail(validator, *input.Email)
	}
	validateProfile(validator, input.FirstName, input.LastName, input.Bio)
	if input.Role != nil {
		validator.OneOf(auth.FieldRole, *input.Role, sec.RoleNames()...)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}
	service.invalidateRole(context, user.ID)

	service.logger.InfoContext(context, "user_updated", slog.Int64("user_id", user.ID))
	return user, nil
}

func validateProfile(validator *validate.Validator, firstName, lastName, bio *string) {
	if firstName != nil {
		validator.MaxLen(auth.FieldFirstName, *firstName, auth.MaxNameLength)
	}
	if lastName != nil {
		validator.MaxLen(auth.FieldLastName, *lastName, auth.MaxNameLength)
	}
	if bio != nil {
		validator.MaxLen(auth.FieldBio, *bio, auth.MaxBioLength)
	}
}

// # Authentication

/*
ResolveRole returns the role state the account holds right now.

Description: Token claims are a snapshot taken at issue time. Authentication
resolves the subject through this method so role changes and deletions apply
to tokens that are already out. Cache failures fall back to Postgres.

Returns:
  - sec.RoleState: Stored role and superuser flag
  - error: apperr.NotFound when the account no longer exists
*/
func (service *Service) ResolveRole(context context.Context, userID int64) (sec.RoleState, error) {
	if service.roles != nil {
		state, found, err := service.roles.Get(context, userID)
		if err != nil {
			service.logger.WarnContext(context, "role_cache_get_failed", slog.Any("error", err))
		} else if found {
			return state, nil
		}
	}

	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return sec.RoleState{}, err
	}

	state := sec.RoleState{Role: user.Role, Superuser: user.IsSuperuser}
	if service.roles != nil {
		if err := service.roles.Set(context, userID, state); err != nil {
			service.logger.WarnContext(context, "role_cache_set_failed", slog.Any("error", err))
		}
	}

	return state, nil
}

func (service *Service) invalidateRole(context context.Context, userID int64) {
	if service.roles == nil {
		return
	}
	if err := service.roles.Invalidate(context, userID); err != nil {
		service.logger.WarnContext(context, "role_cache_invalidate_failed",
			slog.Int64("user_id", userID),
			slog.Any("error", err),
		)
	}
}

// # Operator Operations

/*
CreateSuperuser creates a superuser, or promotes the existing account with the
same username and email, and issues a fresh confirmation code for it.

Returns:
  - *auth.User: The superuser account
  - string: Plain confirmation code for the token endpoint
  - error: ValidationError when the username belongs to a different email
*/
func (service *Service) CreateSuperuser(context context.Context, username, email string) (*auth.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := auth.ValidateIdentity(&validate.Validator{}, username, email).Err(); err != nil {
		return nil, "", err
	}

	user, err := service.repository.FindByUsername(context, username)

	switch {
	case apperr.HasCode(err, apperr.CodeNotFound):
		user = &auth.User{Username: username, Email: email, Role: sec.RoleAdmin, IsSuperuser: true}
		if err := service.repository.Create(context, user); err != nil {
			return nil, "", fmt.Errorf("account_service_superuser_create_failed: %w", err)
		}

	case err != nil:
		return nil, "", fmt.Errorf("account_service_superuser_lookup_failed: %w", err)

	case user.Email != email:
		return nil, "", validate.FieldError(auth.FieldEmail, "Username is registered with a different email")

	default:
		user.Role = sec.RoleAdmin
		user.IsSuperuser = true
		if err := service.repository.Update(context, user); err != nil {
			return nil, "", fmt.Errorf("account_service_superuser_promote_failed: %w", err)
		}
		service.invalidateRole(context, user.ID)
	}

	code, err := service.codes.IssueCode(context, user)
	if err != nil {
		return nil, "", err
	}

	service.logger.InfoContext(context, "superuser_ready", slog.Int64("user_id", user.ID))
	return user, code, nil
}
