// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/critikahq/critika/internal/platform/middleware"
	requestutil "github.com/critikahq/critika/internal/platform/request"
	"github.com/critikahq/critika/internal/platform/respond"
	"github.com/critikahq/critika/pkg/pagination"
)

// Handler exposes the title endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a title HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the title routes on the given router.
//
// Reads are public; writes require admin capability. Review routes are
// nested under /{titleID} by the composition root, not here.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.list)
	r.With(middleware.RequireAdmin).Post("/", h.create)

	r.Get("/{titleID}", h.get)
	r.With(middleware.RequireAdmin).Patch("/{titleID}", h.update)
	r.With(middleware.RequireAdmin).Delete("/{titleID}", h.delete)
}

// list handles GET /titles
//
// Supported filters: category (slug), genre (slug), name (substring),
// year (exact). Filters combine with AND.
func (h *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	query := request.URL.Query()
	filter := Filter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
	}
	if raw := query.Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil {
			filter.Year = &year
		}
	}

	titles, total, err := h.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(request, params, total))
}

// get handles GET /titles/{titleID}
func (h *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := h.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

// create handles POST /titles
func (h *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := h.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

// update handles PATCH /titles/{titleID}
func (h *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := h.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// delete handles DELETE /titles/{titleID}
func (h *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IntParam(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := h.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
