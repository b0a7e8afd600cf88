// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package account

import (
	"context"
	"errors"
	"regexp"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/constants"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/internal/platform/sec"
	"github.com/critikahq/critika/internal/platform/validate"
	"github.com/critikahq/critika/pkg/pagination"
	"github.com/critikahq/critika/pkg/uuid"
)

const maxUsernameLength = 150

// usernameRegex bounds the accepted username alphabet.
var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

// reservedUsernames can never be claimed; "me" would collide with the
// self-service route.
var reservedUsernames = map[string]bool{"me": true}

// Service implements the account use cases.
type Service struct {
	repo Repository
}

// NewService creates an account service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the admin-supplied fields for a new user.
// An empty role defaults to the regular user role.
type CreateInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
}

// UpdateInput carries an admin's partial update of a user.
// Nil fields are left unchanged.
type UpdateInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Bio      *string `json:"bio"`
}

// MeUpdateInput carries a user's partial update of their own profile.
// Role and email are deliberately absent: users cannot change their own
// role, and the email is the sign-in identity.
type MeUpdateInput struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

// List returns a page of users, optionally filtered by username substring.
func (s *Service) List(ctx context.Context, search string, params pagination.Params) ([]*User, int, error) {
	users, total, err := s.repo.List(ctx, search, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	if users == nil {
		users = []*User{}
	}
	return users, total, nil
}

// GetByUsername returns one user.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.findByUsername(ctx, username)
}

// Create validates the input and provisions a new user account.
func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	v := &validate.Validator{}
	validateUsername(v, input.Username)
	v.Required(FieldEmail, input.Email)
	if input.Email != "" {
		v.Email(FieldEmail, input.Email)
	}
	v.OneOf(FieldRole, input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	v.MaxLen(FieldBio, input.Bio, constants.MaxBioLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	u := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.UserRole(input.Role),
		Bio:      input.Bio,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies an admin's partial update to a user.
func (s *Service) Update(ctx context.Context, username string, input UpdateInput) (*User, error) {
	u, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		u.Username = *input.Username
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.Role != nil {
		u.Role = sec.UserRole(*input.Role)
	}
	if input.Bio != nil {
		u.Bio = *input.Bio
	}

	if err := s.validateUser(u); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user account and all content they authored.
func (s *Service) Delete(ctx context.Context, username string) error {
	if err := s.repo.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("User")
		}
		return err
	}
	return nil
}

// GetMe returns the calling user's own profile.
func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	return u, nil
}

// UpdateMe applies a user's partial update to their own profile.
// The role is never touched here, whatever the payload carries.
func (s *Service) UpdateMe(ctx context.Context, userID string, input MeUpdateInput) (*User, error) {
	u, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		u.Username = *input.Username
	}
	if input.Bio != nil {
		u.Bio = *input.Bio
	}

	if err := s.validateUser(u); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// findByUsername maps missing rows to a client-facing 404.
func (s *Service) findByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	return u, nil
}

// validateUser checks the full invariants of a user record before a write.
func (s *Service) validateUser(u *User) error {
	v := &validate.Validator{}
	validateUsername(v, u.Username)
	v.Required(FieldEmail, u.Email)
	if u.Email != "" {
		v.Email(FieldEmail, u.Email)
	}
	v.OneOf(FieldRole, string(u.Role), string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	v.MaxLen(FieldBio, u.Bio, constants.MaxBioLength)
	return v.Err()
}

// validateUsername applies the shared username rules.
func validateUsername(v *validate.Validator, username string) {
	v.Required(FieldUsername, username).MaxLen(FieldUsername, username, maxUsernameLength)
	if username != "" {
		v.Custom(FieldUsername, !usernameRegex.MatchString(username),
			"May contain only letters, digits, and @/./+/-/_ characters")
		v.Custom(FieldUsername, reservedUsernames[username], "This username is reserved")
	}
}
