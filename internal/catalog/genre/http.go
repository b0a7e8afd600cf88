package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/critikahq/critika/internal/platform/middleware"
	requestutil "github.com/critikahq/critika/internal/platform/request"
	"github.com/critikahq/critika/internal/platform/respond"
	"github.com/critikahq/critika/pkg/pagination"
)

// Handler exposes the genre endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a genre HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the genre router.
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

// list handles GET /genres
func (h *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	name := request.URL.Query().Get("search")

	genres, total, err := h.service.List(request.Context(), name, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(request, params, total))
}

// get handles GET /genres/{slug}
func (h *Handler) get(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	found, err := h.service.FindBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// create handles POST /genres
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

// delete handles DELETE /genres/{slug}
func (h *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	slug := requestutil.Param(request, "slug")

	if err := h.service.Delete(request.Context(), slug); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
