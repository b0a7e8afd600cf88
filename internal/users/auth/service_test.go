// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/internal/platform/sec"
	"github.com/critikahq/critika/internal/users/account"
)

type fakeUsers struct {
	byEmail map[string]*account.User
}

func newFakeUsers(seed ...*account.User) *fakeUsers {
	users := &fakeUsers{byEmail: map[string]*account.User{}}
	for _, u := range seed {
		users.byEmail[u.Email] = u
	}
	return users
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*account.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u *account.User) error {
	for _, existing := range f.byEmail {
		if existing.Username == u.Username {
			return apperr.Conflict("Username already in use")
		}
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return apperr.Conflict("Email already registered")
	}
	f.byEmail[u.Email] = u
	return nil
}

type fakeCodes struct {
	hashes map[string]string
}

func newFakeCodes() *fakeCodes {
	return &fakeCodes{hashes: map[string]string{}}
}

func (f *fakeCodes) Set(_ context.Context, userID, hash string) error {
	f.hashes[userID] = hash
	return nil
}

func (f *fakeCodes) Get(_ context.Context, userID string) (string, error) {
	hash, ok := f.hashes[userID]
	if !ok {
		return "", ErrCodeNotFound
	}
	return hash, nil
}

func (f *fakeCodes) Consume(_ context.Context, userID string) (bool, error) {
	if _, ok := f.hashes[userID]; !ok {
		return false, nil
	}
	delete(f.hashes, userID)
	return true, nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(_, username, _ string, _ bool, _ time.Duration) (string, error) {
	return "token-for-" + username, nil
}

type recordingMailer struct {
	to   []string
	body string
}

func (m *recordingMailer) Send(_ context.Context, to, _, body string) error {
	m.to = append(m.to, to)
	m.body = body
	return nil
}

var codePattern = regexp.MustCompile(`\d{6}`)

func newTestService(users *fakeUsers) (*Service, *fakeCodes, *recordingMailer) {
	codes := newFakeCodes()
	mailer := &recordingMailer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(users, codes, fakeTokens{}, mailer, logger), codes, mailer
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError)
	return appError.HTTPStatus
}

func TestRequestCode(t *testing.T) {
	t.Run("rejects malformed email", func(t *testing.T) {
		service, _, _ := newTestService(newFakeUsers())

		for _, input := range []string{"", "not-an-email", "@example.com"} {
			err := service.RequestCode(context.Background(), input)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err), "input %q", input)
		}
	})

	t.Run("provisions a new account and mails a code", func(t *testing.T) {
		users := newFakeUsers()
		service, codes, mailer := newTestService(users)

		require.NoError(t, service.RequestCode(context.Background(), "alice@example.com"))

		created, ok := users.byEmail["alice@example.com"]
		require.True(t, ok)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, sec.RoleUser, created.Role)
		assert.Equal(t, []string{"alice@example.com"}, mailer.to)
		assert.Regexp(t, codePattern, mailer.body)
		assert.Contains(t, codes.hashes, created.ID)
	})

	t.Run("reuses the existing account", func(t *testing.T) {
		users := newFakeUsers(&account.User{
			ID: "u1", Username: "alice", Email: "alice@example.com", Role: sec.RoleModerator,
		})
		service, codes, _ := newTestService(users)

		require.NoError(t, service.RequestCode(context.Background(), "alice@example.com"))

		assert.Len(t, users.byEmail, 1)
		assert.Contains(t, codes.hashes, "u1")
	})

	t.Run("suffixes the username on collision", func(t *testing.T) {
		users := newFakeUsers(&account.User{
			ID: "u1", Username: "alice", Email: "alice@other.com", Role: sec.RoleUser,
		})
		service, _, _ := newTestService(users)

		require.NoError(t, service.RequestCode(context.Background(), "alice@example.com"))

		created, ok := users.byEmail["alice@example.com"]
		require.True(t, ok)
		assert.Regexp(t, `^alice-\d{4}$`, created.Username)
	})

	t.Run("a second request replaces the pending code", func(t *testing.T) {
		users := newFakeUsers()
		service, codes, mailer := newTestService(users)

		require.NoError(t, service.RequestCode(context.Background(), "alice@example.com"))
		first := codePattern.FindString(mailer.body)
		require.NoError(t, service.RequestCode(context.Background(), "alice@example.com"))
		second := codePattern.FindString(mailer.body)

		created := users.byEmail["alice@example.com"]
		assert.True(t, sec.CheckCodeHash(second, codes.hashes[created.ID]))
		if first != second {
			assert.False(t, sec.CheckCodeHash(first, codes.hashes[created.ID]))
		}
	})
}

func TestExchangeCode(t *testing.T) {
	issue := func(t *testing.T) (*Service, string, string) {
		t.Helper()
		service, _, mailer := newTestService(newFakeUsers())
		require.NoError(t, service.RequestCode(context.Background(), "alice@example.com"))
		code := codePattern.FindString(mailer.body)
		require.NotEmpty(t, code)
		return service, "alice@example.com", code
	}

	t.Run("returns a bearer token for a valid code", func(t *testing.T) {
		service, email, code := issue(t)

		token, err := service.ExchangeCode(context.Background(), email, code)

		require.NoError(t, err)
		assert.Equal(t, "token-for-alice", token.Token)
	})

	t.Run("a code is single use", func(t *testing.T) {
		service, email, code := issue(t)

		_, err := service.ExchangeCode(context.Background(), email, code)
		require.NoError(t, err)

		_, err = service.ExchangeCode(context.Background(), email, code)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("rejects a wrong code", func(t *testing.T) {
		service, email, code := issue(t)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		_, err := service.ExchangeCode(context.Background(), email, wrong)

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("returns 404 for an unknown email", func(t *testing.T) {
		service, _, _ := newTestService(newFakeUsers())

		_, err := service.ExchangeCode(context.Background(), "ghost@example.com", "123456")

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("rejects an exchange without a pending code", func(t *testing.T) {
		users := newFakeUsers(&account.User{
			ID: "u1", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser,
		})
		service, _, _ := newTestService(users)

		_, err := service.ExchangeCode(context.Background(), "alice@example.com", "123456")

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("rejects blank input", func(t *testing.T) {
		service, _, _ := newTestService(newFakeUsers())

		_, err := service.ExchangeCode(context.Background(), "", "")

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})
}
