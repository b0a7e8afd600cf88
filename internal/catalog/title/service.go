// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package title

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/critikahq/critika/internal/catalog/category"
	"github.com/critikahq/critika/internal/catalog/genre"
	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/constants"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/internal/platform/validate"
	"github.com/critikahq/critika/pkg/pagination"
)

// CategoryResolver resolves a category slug to a category.
type CategoryResolver interface {
	FindBySlug(ctx context.Context, slug string) (*category.Category, error)
}

// GenreResolver resolves a set of genre slugs to genres.
type GenreResolver interface {
	FindBySlugs(ctx context.Context, slugs []string) ([]*genre.Genre, error)
}

// Service implements the title use cases.
type Service struct {
	repo       Repository
	categories CategoryResolver
	genres     GenreResolver
}

// NewService creates a title service.
func NewService(repo Repository, categories CategoryResolver, genres GenreResolver) *Service {
	return &Service{repo: repo, categories: categories, genres: genres}
}

const maxNameLength = 256

// CreateInput carries the client-supplied fields for a new title.
// Category and genres are referenced by slug.
type CreateInput struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Genre       []string `json:"genre"`
	Category    string   `json:"category"`
}

// UpdateInput carries a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category"`
}

// List returns a page of titles matching the filter.
func (s *Service) List(ctx context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	titles, total, err := s.repo.List(ctx, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	if titles == nil {
		titles = []*Title{}
	}
	return titles, total, nil
}

// Get returns a single title by id.
func (s *Service) Get(ctx context.Context, id int64) (*Title, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Title")
		}
		return nil, err
	}
	return t, nil
}

// Create validates the input, resolves category and genre references, and
// persists a new title.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Title, error) {
	v := &validate.Validator{}
	v.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, maxNameLength)
	v.Range(FieldYear, input.Year, constants.MinTitleYear, time.Now().Year())
	v.Required(FieldCategory, input.Category)
	if err := v.Err(); err != nil {
		return nil, err
	}

	cat, err := s.categories.FindBySlug(ctx, input.Category)
	if err != nil {
		return nil, err
	}

	genres, genreIDs, err := s.resolveGenres(ctx, input.Genre)
	if err != nil {
		return nil, err
	}

	t := &Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    cat,
		Genres:      genres,
	}
	if err := s.repo.Create(ctx, t, genreIDs); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies a partial update to an existing title.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*Title, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		t.Name = *input.Name
	}
	if input.Year != nil {
		t.Year = *input.Year
	}
	if input.Description != nil {
		t.Description = *input.Description
	}

	v := &validate.Validator{}
	v.Required(FieldName, t.Name).MaxLen(FieldName, t.Name, maxNameLength)
	v.Range(FieldYear, t.Year, constants.MinTitleYear, time.Now().Year())
	if err := v.Err(); err != nil {
		return nil, err
	}

	if input.Category != nil {
		cat, err := s.categories.FindBySlug(ctx, *input.Category)
		if err != nil {
			return nil, err
		}
		t.Category = cat
	}

	var (
		genreIDs      []int
		replaceGenres bool
	)
	if input.Genre != nil {
		genres, ids, err := s.resolveGenres(ctx, *input.Genre)
		if err != nil {
			return nil, err
		}
		t.Genres = genres
		genreIDs = ids
		replaceGenres = true
	}

	if err := s.repo.Update(ctx, t, genreIDs, replaceGenres); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFound("Title")
		}
		return nil, err
	}
	return t, nil
}

// Delete removes a title together with its reviews and comments.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFound("Title")
		}
		return err
	}
	return nil
}

// resolveGenres maps genre slugs to genres, rejecting unknown slugs.
func (s *Service) resolveGenres(ctx context.Context, slugs []string) ([]*genre.Genre, []int, error) {
	seen := make(map[string]bool, len(slugs))
	deduped := slugs[:0:0]
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			deduped = append(deduped, slug)
		}
	}
	slugs = deduped

	if len(slugs) == 0 {
		return []*genre.Genre{}, nil, nil
	}

	genres, err := s.genres.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, nil, err
	}

	if len(genres) != len(slugs) {
		known := make(map[string]bool, len(genres))
		for _, g := range genres {
			known[g.Slug] = true
		}
		var unknown []string
		for _, slug := range slugs {
			if !known[slug] {
				unknown = append(unknown, slug)
			}
		}
		return nil, nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldGenre,
			Message: fmt.Sprintf("Unknown genre slugs: %s", strings.Join(unknown, ", ")),
		})
	}

	ids := make([]int, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return genres, ids, nil
}
