// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

/*
Package auth implements the passwordless sign-in flow.

A caller submits an email; the service finds or creates the account, emails
a short-lived numeric confirmation code, and later exchanges a valid code
for a signed bearer token. Codes are stored bcrypt-hashed in Redis and are
single-use: the first successful exchange consumes the entry.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/constants"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/internal/platform/email"
	"github.com/critikahq/critika/internal/platform/sec"
	"github.com/critikahq/critika/internal/platform/validate"
	"github.com/critikahq/critika/internal/users/account"
	"github.com/critikahq/critika/pkg/slug"
	"github.com/critikahq/critika/pkg/uuid"
)

// errInvalidCode is the uniform client answer for a missing, wrong,
// expired, or already-consumed confirmation code: no variant may reveal
// which case occurred.
var errInvalidCode = apperr.ValidationError("Invalid or expired confirmation code")

// usernameAttempts bounds the collision-retry loop when deriving a
// username from an email local part.
const usernameAttempts = 5

// Service implements the sign-in use cases.
type Service struct {
	users  UserRepository
	codes  CodeRepository
	tokens TokenProvider
	mailer email.Mailer
	logger *slog.Logger
}

// NewService creates an auth service.
func NewService(users UserRepository, codes CodeRepository, tokens TokenProvider, mailer email.Mailer, logger *slog.Logger) *Service {
	return &Service{users: users, codes: codes, tokens: tokens, mailer: mailer, logger: logger}
}

// RequestCode finds or creates the account for the email and sends it a
// fresh confirmation code. Requesting again replaces any pending code.
func (s *Service) RequestCode(ctx context.Context, emailAddr string) error {
	v := &validate.Validator{}
	v.Required(account.FieldEmail, emailAddr)
	if emailAddr != "" {
		v.Email(account.FieldEmail, emailAddr)
	}
	if err := v.Err(); err != nil {
		return err
	}

	user, err := s.findOrCreateUser(ctx, emailAddr)
	if err != nil {
		return err
	}

	code, err := sec.GenerateConfirmationCode(constants.ConfirmationCodeDigits)
	if err != nil {
		return apperr.Internal(err)
	}
	hash, err := sec.HashCode(code)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.codes.Set(ctx, user.ID, hash); err != nil {
		return err
	}

	subject := "Your Critika sign-in code"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour confirmation code is: %s\n\nIt expires in %d minutes. If you did not request it, ignore this message.\n",
		user.Username, code, int(constants.ConfirmationCodeTTL.Minutes()))
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.ErrorContext(ctx, "auth_code_mail_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()))
		return apperr.Internal(err)
	}

	s.logger.InfoContext(ctx, "auth_code_issued", slog.String("user_id", user.ID))
	return nil
}

// TokenResponse is the exchange result.
type TokenResponse struct {
	Token string `json:"token"`
}

// ExchangeCode trades a valid confirmation code for a signed bearer token.
// The code is consumed on success; replaying it fails.
func (s *Service) ExchangeCode(ctx context.Context, emailAddr, code string) (*TokenResponse, error) {
	v := &validate.Validator{}
	v.Required(account.FieldEmail, emailAddr)
	v.Required("confirmation_code", code)
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}

	hash, err := s.codes.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			return nil, errInvalidCode
		}
		return nil, err
	}
	if !sec.CheckCodeHash(code, hash) {
		return nil, errInvalidCode
	}

	consumed, err := s.codes.Consume(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// A concurrent exchange presented the same code first.
		return nil, errInvalidCode
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), user.Staff, constants.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.InfoContext(ctx, "auth_token_issued", slog.String("user_id", user.ID))
	return &TokenResponse{Token: token}, nil
}

// findOrCreateUser returns the account registered under the email,
// provisioning a fresh one with the regular user role when absent.
func (s *Service) findOrCreateUser(ctx context.Context, emailAddr string) (*account.User, error) {
	user, err := s.users.FindByEmail(ctx, emailAddr)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	base := usernameFromEmail(emailAddr)
	candidate := base
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		user = &account.User{
			ID:       uuid.New(),
			Username: candidate,
			Email:    emailAddr,
			Role:     sec.RoleUser,
		}
		err = s.users.Create(ctx, user)
		if err == nil {
			s.logger.InfoContext(ctx, "auth_user_provisioned", slog.String("user_id", user.ID))
			return user, nil
		}
		if appError := apperr.As(err); appError == nil || appError.HTTPStatus != http.StatusConflict {
			return nil, err
		}

		// A concurrent request may have registered the email first.
		if existing, findErr := s.users.FindByEmail(ctx, emailAddr); findErr == nil {
			return existing, nil
		}

		suffix, genErr := sec.GenerateConfirmationCode(4)
		if genErr != nil {
			return nil, apperr.Internal(genErr)
		}
		candidate = base + "-" + suffix
	}
	return nil, err
}

// usernameFromEmail derives a starting username from the email local part.
func usernameFromEmail(emailAddr string) string {
	local := emailAddr
	if at := strings.Index(emailAddr, "@"); at > 0 {
		local = emailAddr[:at]
	}
	if derived := slug.From(local); derived != "" {
		return derived
	}
	return "user"
}
