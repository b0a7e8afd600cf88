// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/database/schema"
	"github.com/critikahq/critika/internal/platform/dberr"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context, search string, limit, offset int) ([]*User, int, error) {
	t := schema.UserAccount

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total
		FROM %s`,
		t.ID, t.Username, t.Email, t.Role, t.IsStaff, t.Bio, t.CreatedAt, t.UpdatedAt,
		t.Table)

	args := []any{}
	if search != "" {
		query += fmt.Sprintf(" WHERE %s ILIKE '%%' || $1 || '%%'", t.Username)
		args = append(args, search)
	}
	query += fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", t.Username, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list users")
	}
	defer rows.Close()

	var (
		users []*User
		total int
	)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Staff,
			&u.Bio, &u.CreatedAt, &u.UpdatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan user")
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate users")
	}
	return users, total, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	t := schema.UserAccount
	return r.findBy(ctx, t.ID, id)
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	t := schema.UserAccount
	return r.findBy(ctx, t.Username, username)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	t := schema.UserAccount
	return r.findBy(ctx, t.Email, email)
}

func (r *postgresRepository) findBy(ctx context.Context, column, value string) (*User, error) {
	t := schema.UserAccount

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		t.ID, t.Username, t.Email, t.Role, t.IsStaff, t.Bio, t.CreatedAt, t.UpdatedAt,
		t.Table, column)

	var u User
	err := r.db.QueryRow(ctx, query, value).Scan(
		&u.ID, &u.Username, &u.Email, &u.Role, &u.Staff, &u.Bio, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find user by "+column)
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *User) error {
	t := schema.UserAccount

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		t.Table, t.ID, t.Username, t.Email, t.Role, t.IsStaff, t.Bio,
		t.CreatedAt, t.UpdatedAt)

	err := r.db.QueryRow(ctx, query, u.ID, u.Username, u.Email, u.Role, u.Staff, u.Bio).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if conflict := identityConflict(err); conflict != nil {
			return conflict
		}
		return dberr.Wrap(err, "create user")
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, u *User) error {
	t := schema.UserAccount

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = now()
		WHERE %s = $5
		RETURNING %s`,
		t.Table, t.Username, t.Email, t.Role, t.Bio, t.UpdatedAt,
		t.ID, t.UpdatedAt)

	err := r.db.QueryRow(ctx, query, u.Username, u.Email, u.Role, u.Bio, u.ID).Scan(&u.UpdatedAt)
	if err != nil {
		if conflict := identityConflict(err); conflict != nil {
			return conflict
		}
		return dberr.Wrap(err, "update user")
	}
	return nil
}

// DeleteByUsername removes the account and everything it authored.
// Comments go first, then reviews, then the account row.
func (r *postgresRepository) DeleteByUsername(ctx context.Context, username string) error {
	t := schema.UserAccount
	review := schema.SocialReview
	comment := schema.SocialComment

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin delete user")
	}
	defer tx.Rollback(ctx)

	var id string
	find := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", t.ID, t.Table, t.Username)
	if err := tx.QueryRow(ctx, find, username).Scan(&id); err != nil {
		return dberr.Wrap(err, "find user for delete")
	}

	steps := []struct {
		action string
		query  string
	}{
		{"delete comments on authored reviews", fmt.Sprintf(
			"DELETE FROM %s WHERE %s IN (SELECT %s FROM %s WHERE %s = $1)",
			comment.Table, comment.ReviewID, review.ID, review.Table, review.AuthorID)},
		{"delete authored comments", fmt.Sprintf(
			"DELETE FROM %s WHERE %s = $1", comment.Table, comment.AuthorID)},
		{"delete authored reviews", fmt.Sprintf(
			"DELETE FROM %s WHERE %s = $1", review.Table, review.AuthorID)},
		{"delete user", fmt.Sprintf(
			"DELETE FROM %s WHERE %s = $1", t.Table, t.ID)},
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step.query, id); err != nil {
			return dberr.Wrap(err, step.action)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit delete user")
	}
	return nil
}

// identityConflict maps unique-constraint violations on username or email
// to client-facing conflicts. Returns nil for other errors.
func identityConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || !dberr.IsUniqueViolation(err) {
		return nil
	}
	t := schema.UserAccount
	switch {
	case strings.Contains(pgErr.ConstraintName, t.Username):
		return apperr.Conflict("Username already in use")
	case strings.Contains(pgErr.ConstraintName, t.Email):
		return apperr.Conflict("Email already registered")
	default:
		return apperr.Conflict("User already exists")
	}
}
