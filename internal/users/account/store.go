// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package account

import "context"

// Repository defines the persistence operations for user accounts.
type Repository interface {
	// List returns a page of users ordered by username, together with the
	// total count. A non-empty search matches usernames containing the
	// substring, case-insensitively.
	List(ctx context.Context, search string, limit, offset int) ([]*User, int, error)

	// FindByID returns the user with the given uuid.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername returns the user with the given username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByEmail returns the user registered under the given email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a new user. Username and email collisions surface
	// as conflicts.
	Create(ctx context.Context, u *User) error

	// Update rewrites the user's mutable fields.
	Update(ctx context.Context, u *User) error

	// DeleteByUsername removes the account together with its reviews and
	// comments, in one transaction.
	DeleteByUsername(ctx context.Context, username string) error
}
