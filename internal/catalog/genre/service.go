package genre

import (
	"context"
	"errors"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/internal/platform/validate"
	"github.com/critikahq/critika/pkg/pagination"
	"github.com/critikahq/critika/pkg/slug"
)

const (
	maxNameLength = 256
	maxSlugLength = 50
)

// Service implements the genre use cases.
type Service struct {
	repo Repository
}

// NewService creates a genre service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the client-supplied fields for a new genre.
// An empty Slug is derived from the name.
type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// List returns a page of genres, optionally filtered by exact name.
func (s *Service) List(ctx context.Context, name string, params pagination.Params) ([]*Genre, int, error) {
	genres, total, err := s.repo.List(ctx, name, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	if genres == nil {
		genres = []*Genre{}
	}
	return genres, total, nil
}

// FindBySlugs resolves a set of genre slugs to genres. The title service
// uses this to attach genres on title writes.
func (s *Service) FindBySlugs(ctx context.Context, slugs []string) ([]*Genre, error) {
	return s.repo.FindBySlugs(ctx, slugs)
}

// FindBySlug returns a single genre.
func (s *Service) FindBySlug(ctx context.Context, slugValue string) (*Genre, error) {
	genres, err := s.repo.FindBySlugs(ctx, []string{slugValue})
	if err != nil {
		return nil, err
	}
	if len(genres) == 0 {
		return nil, apperr.NotFound("Genre")
	}
	return genres[0], nil
}

// Create validates the input and persists a new genre.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Genre, error) {
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, maxNameLength)
	v.Required(FieldSlug, input.Slug).MaxLen(FieldSlug, input.Slug, maxSlugLength)
	if input.Slug != "" {
		v.Slug(FieldSlug, input.Slug)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	g := &Genre{Name: input.Name, Slug: input.Slug}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a genre by slug along with its title associations.
func (s *Service) Delete(ctx context.Context, slugValue string) error {
	if err := s.repo.DeleteBySlug(ctx, slugValue); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Genre")
		}
		return err
	}
	return nil
}
