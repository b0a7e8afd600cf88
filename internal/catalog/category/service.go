package category

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

// Service implements the category use cases.
type Service struct {
	repo Repository
}

// NewService creates a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput carries the client-supplied fields for a new category.
// An empty Slug is derived from the name.
type CreateInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// List returns a page of categories, optionally filtered by exact name.
func (s *Service) List(ctx context.Context, name string, params pagination.Params) ([]*Category, int, error) {
	categories, total, err := s.repo.List(ctx, name, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	if categories == nil {
		categories = []*Category{}
	}
	return categories, total, nil
}

// FindBySlug returns a single category. The title service uses this to
// resolve category references on title writes.
func (s *Service) FindBySlug(ctx context.Context, slugValue string) (*Category, error) {
	c, err := s.repo.FindBySlug(ctx, slugValue)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Category")
		}
		return nil, err
	}
	return c, nil
}

// Create validates the input and persists a new category.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Category, error) {
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

	c := &Category{Name: input.Name, Slug: input.Slug}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a category by slug and detaches its titles.
func (s *Service) Delete(ctx context.Context, slugValue string) error {
	if err := s.repo.DeleteBySlug(ctx, slugValue); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Category")
		}
		return err
	}
	return nil
}
