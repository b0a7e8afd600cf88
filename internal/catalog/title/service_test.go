// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package title

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critikahq/critika/internal/catalog/category"
	"github.com/critikahq/critika/internal/catalog/genre"
	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/pkg/pagination"
)

type fakeRepository struct {
	titles map[int64]*Title
	genres map[int64][]int
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		titles: map[int64]*Title{},
		genres: map[int64][]int{},
		nextID: 1,
	}
}

func (r *fakeRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	var matched []*Title
	for _, t := range r.titles {
		if filter.CategorySlug != "" && (t.Category == nil || t.Category.Slug != filter.CategorySlug) {
			continue
		}
		if filter.Year != nil && t.Year != *filter.Year {
			continue
		}
		matched = append(matched, t)
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

func (r *fakeRepository) FindByID(_ context.Context, id int64) (*Title, error) {
	t, ok := r.titles[id]
	if !ok {
		return nil, errNotFound()
	}
	copied := *t
	return &copied, nil
}

func (r *fakeRepository) Create(_ context.Context, t *Title, genreIDs []int) error {
	t.ID = r.nextID
	r.nextID++
	stored := *t
	r.titles[t.ID] = &stored
	r.genres[t.ID] = genreIDs
	return nil
}

func (r *fakeRepository) Update(_ context.Context, t *Title, genreIDs []int, replaceGenres bool) error {
	if _, ok := r.titles[t.ID]; !ok {
		return errNotFound()
	}
	stored := *t
	r.titles[t.ID] = &stored
	if replaceGenres {
		r.genres[t.ID] = genreIDs
	}
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.titles[id]; !ok {
		return errNotFound()
	}
	delete(r.titles, id)
	delete(r.genres, id)
	return nil
}

type fakeCategoryResolver struct {
	categories map[string]*category.Category
}

func (f *fakeCategoryResolver) FindBySlug(_ context.Context, slug string) (*category.Category, error) {
	if c, ok := f.categories[slug]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Category")
}

type fakeGenreResolver struct {
	genres map[string]*genre.Genre
}

func (f *fakeGenreResolver) FindBySlugs(_ context.Context, slugs []string) ([]*genre.Genre, error) {
	var matched []*genre.Genre
	for _, slug := range slugs {
		if g, ok := f.genres[slug]; ok {
			matched = append(matched, g)
		}
	}
	return matched, nil
}

func errNotFound() error {
	return dberr.ErrNotFound
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	categories := &fakeCategoryResolver{categories: map[string]*category.Category{
		"films": {ID: 1, Name: "Films", Slug: "films"},
	}}
	genres := &fakeGenreResolver{genres: map[string]*genre.Genre{
		"drama":  {ID: 1, Name: "Drama", Slug: "drama"},
		"comedy": {ID: 2, Name: "Comedy", Slug: "comedy"},
	}}
	return NewService(repo, categories, genres), repo
}

func TestServiceCreate(t *testing.T) {
	t.Run("persists title with resolved references", func(t *testing.T) {
		service, repo := newTestService()

		created, err := service.Create(context.Background(), CreateInput{
			Name:     "Solaris",
			Year:     1972,
			Genre:    []string{"drama"},
			Category: "films",
		})

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		require.NotNil(t, created.Category)
		assert.Equal(t, "films", created.Category.Slug)
		require.Len(t, created.Genres, 1)
		assert.Equal(t, []int{1}, repo.genres[created.ID])
		assert.Nil(t, created.Rating)
	})

	t.Run("rejects unknown category with 404", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Create(context.Background(), CreateInput{
			Name:     "Solaris",
			Year:     1972,
			Category: "podcasts",
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	})

	t.Run("rejects unknown genre slug with 400", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Create(context.Background(), CreateInput{
			Name:     "Solaris",
			Year:     1972,
			Genre:    []string{"drama", "noir"},
			Category: "films",
		})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
		require.Len(t, appError.Details, 1)
		assert.Equal(t, FieldGenre, appError.Details[0].Field)
		assert.Contains(t, appError.Details[0].Message, "noir")
	})

	t.Run("rejects out-of-range years", func(t *testing.T) {
		service, _ := newTestService()

		for _, year := range []int{999, time.Now().Year() + 1} {
			_, err := service.Create(context.Background(), CreateInput{
				Name:     "Solaris",
				Year:     year,
				Category: "films",
			})

			appError := apperr.As(err)
			require.NotNil(t, appError, "year %d must be rejected", year)
			assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
		}
	})

	t.Run("accepts the current year", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Create(context.Background(), CreateInput{
			Name:     "Solaris",
			Year:     time.Now().Year(),
			Category: "films",
		})

		require.NoError(t, err)
	})
}

func TestServiceList(t *testing.T) {
	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		service, _ := newTestService()

		titles, total, err := service.List(context.Background(), Filter{}, pagination.Params{Page: 1, Limit: 20})

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, titles)
		assert.Empty(t, titles)
	})

	t.Run("filters by category slug", func(t *testing.T) {
		service, _ := newTestService()
		_, err := service.Create(context.Background(), CreateInput{
			Name:     "Solaris",
			Year:     1972,
			Category: "films",
		})
		require.NoError(t, err)

		titles, total, err := service.List(context.Background(), Filter{CategorySlug: "films"}, pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, titles, 1)

		titles, total, err = service.List(context.Background(), Filter{CategorySlug: "books"}, pagination.Params{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, titles)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Run("keeps unset fields unchanged", func(t *testing.T) {
		service, _ := newTestService()
		created, err := service.Create(context.Background(), CreateInput{
			Name:        "Solaris",
			Year:        1972,
			Description: "A space station drama",
			Category:    "films",
		})
		require.NoError(t, err)

		newName := "Solyaris"
		updated, err := service.Update(context.Background(), created.ID, UpdateInput{Name: &newName})

		require.NoError(t, err)
		assert.Equal(t, "Solyaris", updated.Name)
		assert.Equal(t, 1972, updated.Year)
		assert.Equal(t, "A space station drama", updated.Description)
	})

	t.Run("replaces genres when provided", func(t *testing.T) {
		service, repo := newTestService()
		created, err := service.Create(context.Background(), CreateInput{
			Name:     "Solaris",
			Year:     1972,
			Genre:    []string{"drama"},
			Category: "films",
		})
		require.NoError(t, err)

		genres := []string{"comedy"}
		updated, err := service.Update(context.Background(), created.ID, UpdateInput{Genre: &genres})

		require.NoError(t, err)
		require.Len(t, updated.Genres, 1)
		assert.Equal(t, "comedy", updated.Genres[0].Slug)
		assert.Equal(t, []int{2}, repo.genres[created.ID])
	})

	t.Run("returns 404 for unknown title", func(t *testing.T) {
		service, _ := newTestService()

		_, err := service.Update(context.Background(), 42, UpdateInput{})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Run("removes an existing title", func(t *testing.T) {
		service, repo := newTestService()
		created, err := service.Create(context.Background(), CreateInput{
			Name:     "Solaris",
			Year:     1972,
			Category: "films",
		})
		require.NoError(t, err)

		require.NoError(t, service.Delete(context.Background(), created.ID))
		assert.Empty(t, repo.titles)
	})

	t.Run("returns 404 for unknown title", func(t *testing.T) {
		service, _ := newTestService()

		err := service.Delete(context.Background(), 42)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	})
}
