// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

// Package account implements user accounts and their administration.
//
// Accounts are created implicitly by the passwordless sign-in flow or
// explicitly by admins. The username is the external identifier for
// administration endpoints; the uuid id is internal.
package account

import (
	"time"

	"github.com/critikahq/critika/internal/platform/sec"
)

// User is a registered account.
//
// Staff marks platform operators provisioned out of band; it grants admin
// capability independently of the role and is never client-writable.
type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      sec.UserRole `json:"role"`
	Staff     bool         `json:"-"`
	Bio       string       `json:"bio"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"-"`
}

// IsAdmin reports whether the user has admin capability, via the admin
// role or staff status.
func (u *User) IsAdmin() bool {
	return u.Role == sec.RoleAdmin || u.Staff
}

// IsModerator reports whether the user holds the moderator role.
func (u *User) IsModerator() bool {
	return u.Role == sec.RoleModerator
}

// Field identifiers used in validation errors.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldRole     = "role"
	FieldBio      = "bio"
)
