// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/database/schema"
	"github.com/critikahq/critika/internal/platform/dberr"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a postgres-backed review repository.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (repo *postgresRepository) TitleExists(ctx context.Context, titleID int64) (bool, error) {
	t := schema.CatalogTitle

	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", t.Table, t.ID)

	var exists bool
	if err := repo.db.QueryRow(ctx, query, titleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check title exists")
	}
	return exists, nil
}

func (repo *postgresRepository) ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	r := schema.SocialReview
	u := schema.UserAccount

	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s, COUNT(*) OVER() AS total
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1
		ORDER BY r.%s ASC, r.%s ASC
		LIMIT $2 OFFSET $3`,
		r.ID, r.TitleID, r.AuthorID, u.Username, r.Text, r.Score, r.CreatedAt,
		r.Table,
		u.Table, u.ID, r.AuthorID,
		r.TitleID,
		r.CreatedAt, r.ID)

	rows, err := repo.db.Query(ctx, query, titleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list reviews")
	}
	defer rows.Close()

	var (
		reviews []*Review
		total   int
	)
	for rows.Next() {
		var review Review
		if err := rows.Scan(&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
			&review.Text, &review.Score, &review.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan review")
		}
		reviews = append(reviews, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate reviews")
	}
	return reviews, total, nil
}

func (repo *postgresRepository) FindByID(ctx context.Context, titleID, reviewID int64) (*Review, error) {
	r := schema.SocialReview
	u := schema.UserAccount

	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, u.%s, r.%s, r.%s, r.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		WHERE r.%s = $1 AND r.%s = $2`,
		r.ID, r.TitleID, r.AuthorID, u.Username, r.Text, r.Score, r.CreatedAt,
		r.Table,
		u.Table, u.ID, r.AuthorID,
		r.TitleID, r.ID)

	var review Review
	err := repo.db.QueryRow(ctx, query, titleID, reviewID).Scan(
		&review.ID, &review.TitleID, &review.AuthorID, &review.Author,
		&review.Text, &review.Score, &review.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find review by id")
	}
	return &review, nil
}

func (repo *postgresRepository) HasAuthorReview(ctx context.Context, titleID int64, authorID string) (bool, error) {
	r := schema.SocialReview

	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)",
		r.Table, r.TitleID, r.AuthorID)

	var exists bool
	if err := repo.db.QueryRow(ctx, query, titleID, authorID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check author review")
	}
	return exists, nil
}

func (repo *postgresRepository) Create(ctx context.Context, review *Review) error {
	r := schema.SocialReview

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		r.Table, r.TitleID, r.AuthorID, r.Text, r.Score, r.ID, r.CreatedAt)

	err := repo.db.QueryRow(ctx, query, review.TitleID, review.AuthorID, review.Text, review.Score).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.ValidationError("You have already reviewed this title")
		}
		return dberr.Wrap(err, "create review")
	}
	return nil
}

func (repo *postgresRepository) Update(ctx context.Context, review *Review) error {
	r := schema.SocialReview

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2
		WHERE %s = $3 AND %s = $4`,
		r.Table, r.Text, r.Score, r.TitleID, r.ID)

	tag, err := repo.db.Exec(ctx, query, review.Text, review.Score, review.TitleID, review.ID)
	if err != nil {
		return dberr.Wrap(err, "update review")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repo *postgresRepository) Delete(ctx context.Context, titleID, reviewID int64) error {
	r := schema.SocialReview
	c := schema.SocialComment

	tx, err := repo.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin delete review")
	}
	defer tx.Rollback(ctx)

	clear := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", c.Table, c.ReviewID)
	if _, err := tx.Exec(ctx, clear, reviewID); err != nil {
		return dberr.Wrap(err, "delete review comments")
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", r.Table, r.TitleID, r.ID)
	tag, err := tx.Exec(ctx, del, titleID, reviewID)
	if err != nil {
		return dberr.Wrap(err, "delete review")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit delete review")
	}
	return nil
}

func (repo *postgresRepository) ListComments(ctx context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	c := schema.SocialComment
	u := schema.UserAccount

	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s, COUNT(*) OVER() AS total
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC
		LIMIT $2 OFFSET $3`,
		c.ID, c.ReviewID, c.AuthorID, u.Username, c.Text, c.CreatedAt,
		c.Table,
		u.Table, u.ID, c.AuthorID,
		c.ReviewID,
		c.CreatedAt, c.ID)

	rows, err := repo.db.Query(ctx, query, reviewID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list comments")
	}
	defer rows.Close()

	var (
		comments []*Comment
		total    int
	)
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
			&comment.Text, &comment.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan comment")
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate comments")
	}
	return comments, total, nil
}

func (repo *postgresRepository) FindCommentByID(ctx context.Context, reviewID, commentID int64) (*Comment, error) {
	c := schema.SocialComment
	u := schema.UserAccount

	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, u.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1 AND c.%s = $2`,
		c.ID, c.ReviewID, c.AuthorID, u.Username, c.Text, c.CreatedAt,
		c.Table,
		u.Table, u.ID, c.AuthorID,
		c.ReviewID, c.ID)

	var comment Comment
	err := repo.db.QueryRow(ctx, query, reviewID, commentID).Scan(
		&comment.ID, &comment.ReviewID, &comment.AuthorID, &comment.Author,
		&comment.Text, &comment.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "find comment by id")
	}
	return &comment, nil
}

func (repo *postgresRepository) CreateComment(ctx context.Context, comment *Comment) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		c.Table, c.ReviewID, c.AuthorID, c.Text, c.ID, c.CreatedAt)

	err := repo.db.QueryRow(ctx, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create comment")
	}
	return nil
}

func (repo *postgresRepository) UpdateComment(ctx context.Context, comment *Comment) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $1
		WHERE %s = $2 AND %s = $3`,
		c.Table, c.Text, c.ReviewID, c.ID)

	tag, err := repo.db.Exec(ctx, query, comment.Text, comment.ReviewID, comment.ID)
	if err != nil {
		return dberr.Wrap(err, "update comment")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repo *postgresRepository) DeleteComment(ctx context.Context, reviewID, commentID int64) error {
	c := schema.SocialComment

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", c.Table, c.ReviewID, c.ID)

	tag, err := repo.db.Exec(ctx, query, reviewID, commentID)
	if err != nil {
		return dberr.Wrap(err, "delete comment")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
