package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critikahq/critika/internal/platform/middleware"
	requestutil "github.com/critikahq/critika/internal/platform/request"
	"github.com/critikahq/critika/internal/platform/respond"
	"github.com/critikahq/critika/pkg/pagination"
)

// Handler exposes the category endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a category HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the category router.
//
// Reads are public; writes require admin capability.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.list)
	r.Get("/{slug}", h.get)
	r.With(middleware.RequireAdmin).Post("/", h.create)
	r.With(middleware.RequireAdmin).Delete("/{slug}", h.delete)

	return r
}

// list handles GET /categories
func (h *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	name := request.URL.Query().Get("search")

	categories, total, err := h.service.List(request.Context(), name, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, categories, pagination.NewMeta(request, params, total))
}

// get handles GET /categories/{slug}
func (h *Handler) get(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	found, err := h.service.FindBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// create handles POST /categories
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

// delete handles DELETE /categories/{slug}
func (h *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := h.service.Delete(request.Context(), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
