// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package authz_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critikahq/critika/internal/authz"
	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/sec"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae)
	return ae.HTTPStatus
}

/*
TestActor_Capabilities verifies the two independent paths to admin capability
and the moderator derivation.
*/
func TestActor_Capabilities(t *testing.T) {
	tests := []struct {
		name        string
		actor       *authz.Actor
		isAdmin     bool
		isModerator bool
	}{
		{"plain_user", &authz.Actor{ID: "u1", Role: sec.RoleUser}, false, false},
		{"moderator", &authz.Actor{ID: "u2", Role: sec.RoleModerator}, false, true},
		{"admin_by_role", &authz.Actor{ID: "u3", Role: sec.RoleAdmin}, true, false},
		{"admin_by_staff_flag", &authz.Actor{ID: "u4", Role: sec.RoleUser, Staff: true}, true, false},
		{"staff_moderator", &authz.Actor{ID: "u5", Role: sec.RoleModerator, Staff: true}, true, true},
		{"anonymous", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isAdmin, tt.actor.IsAdmin())
			assert.Equal(t, tt.isModerator, tt.actor.IsModerator())
		})
	}
}

/*
TestFromClaims checks the claims → actor derivation, including the anonymous case.
*/
func TestFromClaims(t *testing.T) {
	assert.Nil(t, authz.FromClaims(nil))

	actor := authz.FromClaims(&sec.AuthClaims{UserID: "u1", Role: "moderator", Staff: true})
	require.NotNil(t, actor)
	assert.Equal(t, "u1", actor.ID)
	assert.Equal(t, sec.RoleModerator, actor.Role)
	assert.True(t, actor.Staff)
}

/*
TestCanMutateContent exercises the owner/moderator/admin matrix for
object-level review and comment mutations.
*/
func TestCanMutateContent(t *testing.T) {
	const authorID = "author-1"

	tests := []struct {
		name       string
		actor      *authz.Actor
		wantStatus int // 0 means allowed
	}{
		{"anonymous_rejected_401", nil, http.StatusUnauthorized},
		{"author_allowed", &authz.Actor{ID: authorID, Role: sec.RoleUser}, 0},
		{"other_user_forbidden_403", &authz.Actor{ID: "stranger", Role: sec.RoleUser}, http.StatusForbidden},
		{"moderator_allowed", &authz.Actor{ID: "mod", Role: sec.RoleModerator}, 0},
		{"admin_allowed", &authz.Actor{ID: "adm", Role: sec.RoleAdmin}, 0},
		{"staff_user_allowed", &authz.Actor{ID: "stf", Role: sec.RoleUser, Staff: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.CanMutateContent(tt.actor, authorID)
			if tt.wantStatus == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			}
		})
	}
}

/*
TestCanCreateContent verifies that any authenticated role may create, while
anonymous callers get 401.
*/
func TestCanCreateContent(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, authz.CanCreateContent(nil)))
	assert.NoError(t, authz.CanCreateContent(&authz.Actor{ID: "u1", Role: sec.RoleUser}))
	assert.NoError(t, authz.CanCreateContent(&authz.Actor{ID: "m1", Role: sec.RoleModerator}))
}

/*
TestCanAdministerCatalog covers the read-open / write-admin split for
titles, categories, and genres.
*/
func TestCanAdministerCatalog(t *testing.T) {
	user := &authz.Actor{ID: "u1", Role: sec.RoleUser}
	moderator := &authz.Actor{ID: "m1", Role: sec.RoleModerator}
	admin := &authz.Actor{ID: "a1", Role: sec.RoleAdmin}

	// Reads are open to everyone, even anonymous.
	assert.NoError(t, authz.CanAdministerCatalog(nil, http.MethodGet))
	assert.NoError(t, authz.CanAdministerCatalog(user, http.MethodHead))
	assert.NoError(t, authz.CanAdministerCatalog(nil, http.MethodOptions))

	// Anonymous writes are 401.
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, authz.CanAdministerCatalog(nil, http.MethodPost)))

	// Non-admin writes are 403; moderators hold no catalogue power.
	assert.Equal(t, http.StatusForbidden, statusOf(t, authz.CanAdministerCatalog(user, http.MethodDelete)))
	assert.Equal(t, http.StatusForbidden, statusOf(t, authz.CanAdministerCatalog(moderator, http.MethodPatch)))

	// Admins may write.
	assert.NoError(t, authz.CanAdministerCatalog(admin, http.MethodPost))
	assert.NoError(t, authz.CanAdministerCatalog(&authz.Actor{ID: "s1", Role: sec.RoleUser, Staff: true}, http.MethodDelete))
}

/*
TestCanAdministerUsers verifies that only admins reach user administration.
*/
func TestCanAdministerUsers(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, authz.CanAdministerUsers(nil)))
	assert.Equal(t, http.StatusForbidden, statusOf(t, authz.CanAdministerUsers(&authz.Actor{ID: "u1", Role: sec.RoleUser})))
	assert.Equal(t, http.StatusForbidden, statusOf(t, authz.CanAdministerUsers(&authz.Actor{ID: "m1", Role: sec.RoleModerator})))
	assert.NoError(t, authz.CanAdministerUsers(&authz.Actor{ID: "a1", Role: sec.RoleAdmin}))
	assert.NoError(t, authz.CanAdministerUsers(&authz.Actor{ID: "s1", Role: sec.RoleUser, Staff: true}))
}
