// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

/*
Package authz implements the authorization policy for the Critika API.

Every protected operation funnels through the decision functions in this
package. Decisions are pure: they depend only on the acting user's claims,
the HTTP method class, and the owning author of the targeted resource,
never on storage or transport state.

Policy summary:

  - Safe methods (GET/HEAD/OPTIONS) are always allowed, even anonymously.
  - Mutations without an authenticated actor are rejected with 401.
  - Object-level mutations on reviews/comments require ownership,
    moderator role, or admin capability; otherwise 403.
  - Catalogue writes (titles, categories, genres) require admin capability.
  - User administration requires admin capability.
*/
package authz

import (
	"net/http"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/sec"
)

// Actor is the acting user as reconstructed from verified token claims.
//
// A nil *Actor represents an anonymous caller.
type Actor struct {
	ID    string
	Role  sec.UserRole
	Staff bool
}

// FromClaims converts verified JWT claims into an [*Actor].
// It returns nil for anonymous requests.
func FromClaims(claims *sec.AuthClaims) *Actor {
	if claims == nil {
		return nil
	}
	return &Actor{
		ID:    claims.UserID,
		Role:  sec.UserRole(claims.Role),
		Staff: claims.Staff,
	}
}

// IsAdmin reports whether the actor has admin capability.
//
// There are two independent paths to it: the admin role, and elevated
// platform-staff status.
func (a *Actor) IsAdmin() bool {
	return a != nil && (a.Role == sec.RoleAdmin || a.Staff)
}

// IsModerator reports whether the actor holds the moderator role.
func (a *Actor) IsModerator() bool {
	return a != nil && a.Role == sec.RoleModerator
}

// IsSafeMethod reports whether the HTTP method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// # Review / Comment policy

// CanCreateContent decides whether the actor may create a review or comment.
// Any authenticated role may create; anonymous callers are rejected.
func CanCreateContent(actor *Actor) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

// CanMutateContent decides whether the actor may update or delete a review
// or comment authored by authorID.
//
// Allowed for the author, any moderator, and any admin.
func CanMutateContent(actor *Actor, authorID string) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if actor.ID == authorID || actor.IsAdmin() || actor.IsModerator() {
		return nil
	}
	return apperr.Forbidden("You do not have permission to modify this resource")
}

// # Catalogue policy

// CanAdministerCatalog decides whether the actor may perform the given method
// on titles, categories, or genres. Reads are open to everyone; writes
// require admin capability.
func CanAdministerCatalog(actor *Actor, method string) error {
	if IsSafeMethod(method) {
		return nil
	}
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !actor.IsAdmin() {
		return apperr.Forbidden("Admin access required")
	}
	return nil
}

// # User administration policy

// CanAdministerUsers decides whether the actor may list, retrieve, modify,
// or delete arbitrary user accounts.
func CanAdministerUsers(actor *Actor) error {
	if actor == nil {
		return apperr.Unauthorized("Authentication required")
	}
	if !actor.IsAdmin() {
		return apperr.Forbidden("Admin access required")
	}
	return nil
}
