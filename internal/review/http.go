// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critikahq/critika/internal/authz"
	requestutil "github.com/critikahq/critika/internal/platform/request"
	"github.com/critikahq/critika/internal/platform/respond"
	"github.com/critikahq/critika/pkg/pagination"
)

// Handler exposes the review and comment endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a review HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the review routes. The passed router is already nested
// under /titles/{titleID}/reviews by the composition root.
//
// Authorization happens in the service layer because object-level
// decisions need the loaded resource's author.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.listReviews)
	r.Post("/", h.createReview)

	r.Route("/{reviewID}", func(r chi.Router) {
		r.Get("/", h.getReview)
		r.Patch("/", h.updateReview)
		r.Delete("/", h.deleteReview)

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", h.listComments)
			r.Post("/", h.createComment)
			r.Get("/{commentID}", h.getComment)
			r.Patch("/{commentID}", h.updateComment)
			r.Delete("/{commentID}", h.deleteComment)
		})
	})
}

// actor reconstructs the acting user from the request context.
func actor(request *http.Request) *authz.Actor {
	return authz.FromClaims(requestutil.Claims(request))
}

// # Reviews

// listReviews handles GET /titles/{titleID}/reviews
func (h *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := h.service.ListReviews(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(request, params, total))
}

// getReview handles GET /titles/{titleID}/reviews/{reviewID}
func (h *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := h.service.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// createReview handles POST /titles/{titleID}/reviews
func (h *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateReviewInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := h.service.CreateReview(request.Context(), actor(request), titleID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// updateReview handles PATCH /titles/{titleID}/reviews/{reviewID}
func (h *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateReviewInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := h.service.UpdateReview(request.Context(), actor(request), titleID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// deleteReview handles DELETE /titles/{titleID}/reviews/{reviewID}
func (h *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.DeleteReview(request.Context(), actor(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comments

// listComments handles GET /titles/{titleID}/reviews/{reviewID}/comments
func (h *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := h.service.ListComments(request.Context(), titleID, reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(request, params, total))
}

// getComment handles GET .../comments/{commentID}
func (h *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := h.service.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// createComment handles POST .../comments
func (h *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CommentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := h.service.CreateComment(request.Context(), actor(request), titleID, reviewID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// updateComment handles PATCH .../comments/{commentID}
func (h *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CommentInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := h.service.UpdateComment(request.Context(), actor(request), titleID, reviewID, commentID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// deleteComment handles DELETE .../comments/{commentID}
func (h *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.DeleteComment(request.Context(), actor(request), titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// reviewPath extracts {titleID} and {reviewID} from the URL.
func reviewPath(request *http.Request) (int64, int64, error) {
	titleID, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err := requestutil.IntParam(request, "reviewID")
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

// commentPath extracts {titleID}, {reviewID}, and {commentID} from the URL.
func commentPath(request *http.Request) (int64, int64, int64, error) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		return 0, 0, 0, err
	}
	commentID, err := requestutil.IntParam(request, "commentID")
	if err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
