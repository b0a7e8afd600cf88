package category

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/dberr"
	"github.com/critikahq/critika/pkg/pagination"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	categories []*Category
	nextID     int
}

func newFakeRepository(seed ...*Category) *fakeRepository {
	repo := &fakeRepository{nextID: 1}
	for _, c := range seed {
		c.ID = repo.nextID
		repo.nextID++
		repo.categories = append(repo.categories, c)
	}
	return repo
}

func (r *fakeRepository) List(_ context.Context, name string, limit, offset int) ([]*Category, int, error) {
	var matched []*Category
	for _, c := range r.categories {
		if name == "" || c.Name == name {
			matched = append(matched, c)
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

func (r *fakeRepository) FindBySlug(_ context.Context, slug string) (*Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (r *fakeRepository) Create(_ context.Context, c *Category) error {
	for _, existing := range r.categories {
		if existing.Slug == c.Slug {
			return apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldSlug, Message: "Slug is already in use"})
		}
	}
	c.ID = r.nextID
	r.nextID++
	r.categories = append(r.categories, c)
	return nil
}

func (r *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	for i, c := range r.categories {
		if c.Slug == slug {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

func TestServiceCreate(t *testing.T) {
	t.Run("persists category with explicit slug", func(t *testing.T) {
		service := NewService(newFakeRepository())

		created, err := service.Create(context.Background(), CreateInput{Name: "Films", Slug: "films"})

		require.NoError(t, err)
		assert.Equal(t, "Films", created.Name)
		assert.Equal(t, "films", created.Slug)
		assert.NotZero(t, created.ID)
	})

	t.Run("derives slug from name when omitted", func(t *testing.T) {
		service := NewService(newFakeRepository())

		created, err := service.Create(context.Background(), CreateInput{Name: "Science Fiction"})

		require.NoError(t, err)
		assert.Equal(t, "science-fiction", created.Slug)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		service := NewService(newFakeRepository())

		_, err := service.Create(context.Background(), CreateInput{})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
		assert.Equal(t, FieldName, appError.Details[0].Field)
	})

	t.Run("rejects malformed slug", func(t *testing.T) {
		service := NewService(newFakeRepository())

		_, err := service.Create(context.Background(), CreateInput{Name: "Films", Slug: "Films!"})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		repo := newFakeRepository(&Category{Name: "Films", Slug: "films"})
		service := NewService(repo)

		_, err := service.Create(context.Background(), CreateInput{Name: "Movies", Slug: "films"})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
		assert.Equal(t, FieldSlug, appError.Details[0].Field)
	})
}

func TestServiceList(t *testing.T) {
	t.Run("returns empty slice when no categories exist", func(t *testing.T) {
		service := NewService(newFakeRepository())

		categories, total, err := service.List(context.Background(), "", pagination.Params{Page: 1, Limit: 20})

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, categories)
		assert.Empty(t, categories)
	})

	t.Run("filters by exact name", func(t *testing.T) {
		repo := newFakeRepository(
			&Category{Name: "Films", Slug: "films"},
			&Category{Name: "Books", Slug: "books"},
		)
		service := NewService(repo)

		categories, total, err := service.List(context.Background(), "Books", pagination.Params{Page: 1, Limit: 20})

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, categories, 1)
		assert.Equal(t, "books", categories[0].Slug)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Run("removes an existing category", func(t *testing.T) {
		repo := newFakeRepository(&Category{Name: "Films", Slug: "films"})
		service := NewService(repo)

		require.NoError(t, service.Delete(context.Background(), "films"))
		assert.Empty(t, repo.categories)
	})

	t.Run("returns 404 for unknown slug", func(t *testing.T) {
		service := NewService(newFakeRepository())

		err := service.Delete(context.Background(), "ghosts")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	})
}
