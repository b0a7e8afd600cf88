// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package review

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critikahq/critika/internal/authz"
	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/internal/platform/sec"
	"github.com/critikahq/critika/pkg/pagination"
)

type fakeRepository struct {
	titles        map[int64]bool
	reviews       map[int64]*Review
	comments      map[int64]*Comment
	nextReviewID  int64
	nextCommentID int64
}

func newFakeRepository(titleIDs ...int64) *fakeRepository {
	repo := &fakeRepository{
		titles:        map[int64]bool{},
		reviews:       map[int64]*Review{},
		comments:      map[int64]*Comment{},
		nextReviewID:  1,
		nextCommentID: 1,
	}
	for _, id := range titleIDs {
		repo.titles[id] = true
	}
	return repo
}

func (r *fakeRepository) TitleExists(_ context.Context, titleID int64) (bool, error) {
	return r.titles[titleID], nil
}

func (r *fakeRepository) ListByTitle(_ context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	var matched []*Review
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			matched = append(matched, review)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeRepository) FindByID(_ context.Context, titleID, reviewID int64) (*Review, error) {
	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, dberr.ErrNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *fakeRepository) HasAuthorReview(_ context.Context, titleID int64, authorID string) (bool, error) {
	for _, review := range r.reviews {
		if review.TitleID == titleID && review.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepository) Create(_ context.Context, review *Review) error {
	for _, existing := range r.reviews {
		if existing.TitleID == review.TitleID && existing.AuthorID == review.AuthorID {
			return apperr.ValidationError("You have already reviewed this title")
		}
	}
	review.ID = r.nextReviewID
	r.nextReviewID++
	review.Author = review.AuthorID
	review.CreatedAt = time.Now()
	stored := *review
	r.reviews[review.ID] = &stored
	return nil
}

func (r *fakeRepository) Update(_ context.Context, review *Review) error {
	if _, ok := r.reviews[review.ID]; !ok {
		return dberr.ErrNotFound
	}
	stored := *review
	r.reviews[review.ID] = &stored
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, titleID, reviewID int64) error {
	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return dberr.ErrNotFound
	}
	for id, comment := range r.comments {
		if comment.ReviewID == reviewID {
			delete(r.comments, id)
		}
	}
	delete(r.reviews, reviewID)
	return nil
}

func (r *fakeRepository) ListComments(_ context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	var matched []*Comment
	for _, comment := range r.comments {
		if comment.ReviewID == reviewID {
			matched = append(matched, comment)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeRepository) FindCommentByID(_ context.Context, reviewID, commentID int64) (*Comment, error) {
	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, dberr.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeRepository) CreateComment(_ context.Context, comment *Comment) error {
	comment.ID = r.nextCommentID
	r.nextCommentID++
	comment.Author = comment.AuthorID
	comment.CreatedAt = time.Now()
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeRepository) UpdateComment(_ context.Context, comment *Comment) error {
	if _, ok := r.comments[comment.ID]; !ok {
		return dberr.ErrNotFound
	}
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *fakeRepository) DeleteComment(_ context.Context, reviewID, commentID int64) error {
	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return dberr.ErrNotFound
	}
	delete(r.comments, commentID)
	return nil
}

var (
	alice     = &authz.Actor{ID: "alice", Role: sec.RoleUser}
	bob       = &authz.Actor{ID: "bob", Role: sec.RoleUser}
	moderator = &authz.Actor{ID: "mod", Role: sec.RoleModerator}
	admin     = &authz.Actor{ID: "root", Role: sec.RoleAdmin}
)

const titleID = int64(1)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError)
	return appError.HTTPStatus
}

func TestCreateReview(t *testing.T) {
	t.Run("persists a valid review", func(t *testing.T) {
		service := NewService(newFakeRepository(titleID))

		created, err := service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{
			Text:  "A slow burn, worth it",
			Score: 8,
		})

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, 8, created.Score)
		assert.Equal(t, "alice", created.AuthorID)
	})

	t.Run("rejects anonymous callers with 401", func(t *testing.T) {
		service := NewService(newFakeRepository(titleID))

		_, err := service.CreateReview(context.Background(), nil, titleID, CreateReviewInput{Text: "x", Score: 5})

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("rejects a second review by the same author with 400", func(t *testing.T) {
		service := NewService(newFakeRepository(titleID))
		_, err := service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{Text: "first", Score: 7})
		require.NoError(t, err)

		_, err = service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{Text: "second", Score: 3})

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("allows different authors to review the same title", func(t *testing.T) {
		service := NewService(newFakeRepository(titleID))
		_, err := service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{Text: "first", Score: 7})
		require.NoError(t, err)

		_, err = service.CreateReview(context.Background(), bob, titleID, CreateReviewInput{Text: "second", Score: 3})

		require.NoError(t, err)
	})

	t.Run("rejects out-of-range scores with 400", func(t *testing.T) {
		service := NewService(newFakeRepository(titleID))

		for _, score := range []int{0, 11, -1} {
			_, err := service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{Text: "x", Score: score})
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err), "score %d must be rejected", score)
		}
	})

	t.Run("returns 404 for a missing title", func(t *testing.T) {
		service := NewService(newFakeRepository())

		_, err := service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{Text: "x", Score: 5})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestMutateReviewPolicy(t *testing.T) {
	newText := "edited"

	setup := func(t *testing.T) (*Service, *Review) {
		t.Helper()
		service := NewService(newFakeRepository(titleID))
		created, err := service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{Text: "original", Score: 5})
		require.NoError(t, err)
		return service, created
	}

	t.Run("author may edit own review", func(t *testing.T) {
		service, created := setup(t)

		updated, err := service.UpdateReview(context.Background(), alice, titleID, created.ID, UpdateReviewInput{Text: &newText})

		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Text)
		assert.Equal(t, 5, updated.Score)
	})

	t.Run("other users get 403", func(t *testing.T) {
		service, created := setup(t)

		_, err := service.UpdateReview(context.Background(), bob, titleID, created.ID, UpdateReviewInput{Text: &newText})

		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})

	t.Run("anonymous callers get 401", func(t *testing.T) {
		service, created := setup(t)

		err := service.DeleteReview(context.Background(), nil, titleID, created.ID)

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("moderators and admins may delete any review", func(t *testing.T) {
		for _, staff := range []*authz.Actor{moderator, admin} {
			service, created := setup(t)

			err := service.DeleteReview(context.Background(), staff, titleID, created.ID)

			require.NoError(t, err, "actor %s", staff.ID)
		}
	})

	t.Run("deleting a review removes its comments", func(t *testing.T) {
		repo := newFakeRepository(titleID)
		service := NewService(repo)
		created, err := service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{Text: "original", Score: 5})
		require.NoError(t, err)
		_, err = service.CreateComment(context.Background(), bob, titleID, created.ID, CommentInput{Text: "agreed"})
		require.NoError(t, err)

		require.NoError(t, service.DeleteReview(context.Background(), alice, titleID, created.ID))
		assert.Empty(t, repo.comments)
	})
}

func TestComments(t *testing.T) {
	setup := func(t *testing.T) (*Service, int64) {
		t.Helper()
		service := NewService(newFakeRepository(titleID))
		created, err := service.CreateReview(context.Background(), alice, titleID, CreateReviewInput{Text: "original", Score: 5})
		require.NoError(t, err)
		return service, created.ID
	}

	t.Run("any authenticated user may comment", func(t *testing.T) {
		service, reviewID := setup(t)

		created, err := service.CreateComment(context.Background(), bob, titleID, reviewID, CommentInput{Text: "agreed"})

		require.NoError(t, err)
		assert.Equal(t, "bob", created.AuthorID)
	})

	t.Run("anonymous comment creation gets 401", func(t *testing.T) {
		service, reviewID := setup(t)

		_, err := service.CreateComment(context.Background(), nil, titleID, reviewID, CommentInput{Text: "agreed"})

		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("blank text gets 400", func(t *testing.T) {
		service, reviewID := setup(t)

		_, err := service.CreateComment(context.Background(), bob, titleID, reviewID, CommentInput{Text: "   "})

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("non-owner comment edit gets 403", func(t *testing.T) {
		service, reviewID := setup(t)
		created, err := service.CreateComment(context.Background(), bob, titleID, reviewID, CommentInput{Text: "agreed"})
		require.NoError(t, err)

		_, err = service.UpdateComment(context.Background(), alice, titleID, reviewID, created.ID, CommentInput{Text: "hijacked"})

		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})

	t.Run("comment under unknown review gets 404", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.CreateComment(context.Background(), bob, titleID, 42, CommentInput{Text: "agreed"})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})
}

func TestListReviews(t *testing.T) {
	t.Run("returns 404 for a missing title", func(t *testing.T) {
		service := NewService(newFakeRepository())

		_, _, err := service.ListReviews(context.Background(), titleID, pagination.Params{Page: 1, Limit: 20})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("returns empty slice for a title without reviews", func(t *testing.T) {
		service := NewService(newFakeRepository(titleID))

		reviews, total, err := service.ListReviews(context.Background(), titleID, pagination.Params{Page: 1, Limit: 20})

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, reviews)
		assert.Empty(t, reviews)
	})
}
