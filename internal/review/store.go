// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package review

import "context"

// Repository defines the persistence operations for reviews and comments.
type Repository interface {
	// TitleExists reports whether a catalogued title with the given id exists.
	TitleExists(ctx context.Context, titleID int64) (bool, error)

	// ListByTitle returns a page of the title's reviews in publication order
	// (oldest first), together with the total count.
	ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]*Review, int, error)

	// FindByID returns the review only if it belongs to the given title.
	FindByID(ctx context.Context, titleID, reviewID int64) (*Review, error)

	// HasAuthorReview reports whether the author already reviewed the title.
	HasAuthorReview(ctx context.Context, titleID int64, authorID string) (bool, error)

	// Create persists a new review, filling in its id and creation time.
	// The storage-level uniqueness constraint on (title, author) is the
	// authoritative duplicate guard.
	Create(ctx context.Context, r *Review) error

	// Update rewrites the review's text and score.
	Update(ctx context.Context, r *Review) error

	// Delete removes the review and its comments in one transaction.
	Delete(ctx context.Context, titleID, reviewID int64) error

	// ListComments returns a page of the review's comments in publication
	// order (oldest first), together with the total count.
	ListComments(ctx context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error)

	// FindCommentByID returns the comment only if it belongs to the given review.
	FindCommentByID(ctx context.Context, reviewID, commentID int64) (*Comment, error)

	// CreateComment persists a new comment, filling in its id and creation time.
	CreateComment(ctx context.Context, c *Comment) error

	// UpdateComment rewrites the comment's text.
	UpdateComment(ctx context.Context, c *Comment) error

	// DeleteComment removes a single comment.
	DeleteComment(ctx context.Context, reviewID, commentID int64) error
}
