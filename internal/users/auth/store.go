// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/critikahq/critika/internal/users/account"
)

// ErrCodeNotFound is returned when no confirmation code is stored for a
// user, either because none was requested or because it expired.
var ErrCodeNotFound = errors.New("confirmation code not found")

// UserRepository is the slice of the account store the auth flow needs.
// *account.Repository implementations satisfy it directly.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*account.User, error)
	Create(ctx context.Context, u *account.User) error
}

// CodeRepository stores bcrypt hashes of pending confirmation codes,
// keyed by user id, with automatic expiry.
type CodeRepository interface {
	// Set stores the hash, replacing any pending code for the user.
	Set(ctx context.Context, userID, hash string) error

	// Get returns the stored hash or [ErrCodeNotFound].
	Get(ctx context.Context, userID string) (string, error)

	// Consume removes the stored hash. It reports whether this call
	// actually removed it; false means a concurrent exchange won.
	Consume(ctx context.Context, userID string) (bool, error)
}

// TokenProvider issues signed access tokens. *sec.TokenService satisfies it.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, staff bool, timeToLive time.Duration) (string, error)
}
