// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package review

import (
	"context"
	"errors"

	"github.com/critikahq/critika/internal/authz"
	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/constants"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/internal/platform/validate"
	"github.com/critikahq/critika/pkg/pagination"
)

// Service implements the review and comment use cases.
//
// All mutations funnel through the authorization policy: creation requires
// any authenticated actor, modification requires the author, a moderator,
// or an admin.
type Service struct {
	repo Repository
}

// NewService creates a review service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateReviewInput carries the client-supplied fields for a new review.
type CreateReviewInput struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// UpdateReviewInput carries a partial review update. Nil fields are left
// unchanged.
type UpdateReviewInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// CommentInput carries the client-supplied text for a new or updated comment.
type CommentInput struct {
	Text string `json:"text"`
}

// # Reviews

// ListReviews returns a page of the title's reviews, oldest first.
func (s *Service) ListReviews(ctx context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := s.repo.ListByTitle(ctx, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	if reviews == nil {
		reviews = []*Review{}
	}
	return reviews, total, nil
}

// GetReview returns one review of the title.
func (s *Service) GetReview(ctx context.Context, titleID, reviewID int64) (*Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.findReview(ctx, titleID, reviewID)
}

// CreateReview validates and persists a new review by the actor.
//
// The duplicate pre-check gives a friendly message for the common case;
// the storage constraint still catches concurrent duplicates.
func (s *Service) CreateReview(ctx context.Context, actor *authz.Actor, titleID int64, input CreateReviewInput) (*Review, error) {
	if err := authz.CanCreateContent(actor); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	v.Required(FieldText, input.Text)
	v.Range(FieldScore, input.Score, constants.MinReviewScore, constants.MaxReviewScore)
	if err := v.Err(); err != nil {
		return nil, err
	}

	exists, err := s.repo.HasAuthorReview(ctx, titleID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ValidationError("You have already reviewed this title")
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     input.Text,
		Score:    input.Score,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	// Re-read to resolve the author username.
	return s.findReview(ctx, titleID, review.ID)
}

// UpdateReview applies a partial update to the actor's review (or any
// review, for moderators and admins).
func (s *Service) UpdateReview(ctx context.Context, actor *authz.Actor, titleID, reviewID int64, input UpdateReviewInput) (*Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanMutateContent(actor, review.AuthorID); err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = *input.Text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}

	v := &validate.Validator{}
	v.Required(FieldText, review.Text)
	v.Range(FieldScore, review.Score, constants.MinReviewScore, constants.MaxReviewScore)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, review); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Review")
		}
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review and its comment thread.
func (s *Service) DeleteReview(ctx context.Context, actor *authz.Actor, titleID, reviewID int64) error {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return err
	}
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authz.CanMutateContent(actor, review.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Review")
		}
		return err
	}
	return nil
}

// # Comments

// ListComments returns a page of the review's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := s.repo.ListComments(ctx, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	if comments == nil {
		comments = []*Comment{}
	}
	return comments, total, nil
}

// GetComment returns one comment of the review.
func (s *Service) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.findComment(ctx, reviewID, commentID)
}

// CreateComment validates and persists a new comment by the actor.
func (s *Service) CreateComment(ctx context.Context, actor *authz.Actor, titleID, reviewID int64, input CommentInput) (*Comment, error) {
	if err := authz.CanCreateContent(actor); err != nil {
		return nil, err
	}
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	v.Required(FieldText, input.Text)
	if err := v.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     input.Text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	// Re-read to resolve the author username.
	return s.findComment(ctx, reviewID, comment.ID)
}

// UpdateComment rewrites the comment's text, subject to the content policy.
func (s *Service) UpdateComment(ctx context.Context, actor *authz.Actor, titleID, reviewID, commentID int64, input CommentInput) (*Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.findComment(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanMutateContent(actor, comment.AuthorID); err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	v.Required(FieldText, input.Text)
	if err := v.Err(); err != nil {
		return nil, err
	}

	comment.Text = input.Text
	if err := s.repo.UpdateComment(ctx, comment); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a single comment, subject to the content policy.
func (s *Service) DeleteComment(ctx context.Context, actor *authz.Actor, titleID, reviewID, commentID int64) error {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	comment, err := s.findComment(ctx, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authz.CanMutateContent(actor, comment.AuthorID); err != nil {
		return err
	}

	if err := s.repo.DeleteComment(ctx, reviewID, commentID); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Comment")
		}
		return err
	}
	return nil
}

// requireTitle fails with 404 when the parent title does not exist.
func (s *Service) requireTitle(ctx context.Context, titleID int64) error {
	exists, err := s.repo.TitleExists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Title")
	}
	return nil
}

// requireReview fails with 404 when the review does not exist under the title.
func (s *Service) requireReview(ctx context.Context, titleID, reviewID int64) error {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return err
	}
	_, err := s.findReview(ctx, titleID, reviewID)
	return err
}

func (s *Service) findReview(ctx context.Context, titleID, reviewID int64) (*Review, error) {
	review, err := s.repo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Review")
		}
		return nil, err
	}
	return review, nil
}

func (s *Service) findComment(ctx context.Context, reviewID, commentID int64) (*Comment, error) {
	comment, err := s.repo.FindCommentByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, err
	}
	return comment, nil
}
