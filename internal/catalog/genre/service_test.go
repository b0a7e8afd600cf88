package genre

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/dberr"
)

type fakeRepository struct {
	genres []*Genre
	nextID int
}

func newFakeRepository(seed ...*Genre) *fakeRepository {
	repo := &fakeRepository{nextID: 1}
	for _, g := range seed {
		g.ID = repo.nextID
		repo.nextID++
		repo.genres = append(repo.genres, g)
	}
	return repo
}

func (r *fakeRepository) List(_ context.Context, name string, limit, offset int) ([]*Genre, int, error) {
	var matched []*Genre
	for _, g := range r.genres {
		if name == "" || g.Name == name {
			matched = append(matched, g)
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

func (r *fakeRepository) FindBySlugs(_ context.Context, slugs []string) ([]*Genre, error) {
	var matched []*Genre
	for _, g := range r.genres {
		for _, s := range slugs {
			if g.Slug == s {
				matched = append(matched, g)
				break
			}
		}
	}
	return matched, nil
}

func (r *fakeRepository) Create(_ context.Context, g *Genre) error {
	for _, existing := range r.genres {
		if existing.Slug == g.Slug {
			return apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldSlug, Message: "Slug is already in use"})
		}
	}
	g.ID = r.nextID
	r.nextID++
	r.genres = append(r.genres, g)
	return nil
}

func (r *fakeRepository) DeleteBySlug(_ context.Context, slug string) error {
	for i, g := range r.genres {
		if g.Slug == slug {
			r.genres = append(r.genres[:i], r.genres[i+1:]...)
			return nil
		}
	}
	return dberr.ErrNotFound
}

func TestServiceCreate(t *testing.T) {
	t.Run("derives slug from name when omitted", func(t *testing.T) {
		service := NewService(newFakeRepository())

		created, err := service.Create(context.Background(), CreateInput{Name: "Heavy Metal"})

		require.NoError(t, err)
		assert.Equal(t, "heavy-metal", created.Slug)
	})

	t.Run("rejects blank input", func(t *testing.T) {
		service := NewService(newFakeRepository())

		_, err := service.Create(context.Background(), CreateInput{})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		repo := newFakeRepository(&Genre{Name: "Drama", Slug: "drama"})
		service := NewService(repo)

		_, err := service.Create(context.Background(), CreateInput{Name: "Dramas", Slug: "drama"})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	})
}

func TestServiceFindBySlugs(t *testing.T) {
	repo := newFakeRepository(
		&Genre{Name: "Drama", Slug: "drama"},
		&Genre{Name: "Rock", Slug: "rock"},
	)
	service := NewService(repo)

	t.Run("resolves known slugs", func(t *testing.T) {
		genres, err := service.FindBySlugs(context.Background(), []string{"drama", "rock"})

		require.NoError(t, err)
		assert.Len(t, genres, 2)
	})

	t.Run("omits unknown slugs", func(t *testing.T) {
		genres, err := service.FindBySlugs(context.Background(), []string{"drama", "jazz"})

		require.NoError(t, err)
		assert.Len(t, genres, 1)
	})
}

func TestServiceFindBySlug(t *testing.T) {
	service := NewService(newFakeRepository(&Genre{Name: "Drama", Slug: "drama"}))

	t.Run("returns the matching genre", func(t *testing.T) {
		found, err := service.FindBySlug(context.Background(), "drama")

		require.NoError(t, err)
		assert.Equal(t, "Drama", found.Name)
	})

	t.Run("returns 404 for unknown slug", func(t *testing.T) {
		_, err := service.FindBySlug(context.Background(), "jazz")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Run("removes an existing genre", func(t *testing.T) {
		repo := newFakeRepository(&Genre{Name: "Drama", Slug: "drama"})
		service := NewService(repo)

		require.NoError(t, service.Delete(context.Background(), "drama"))
		assert.Empty(t, repo.genres)
	})

	t.Run("returns 404 for unknown slug", func(t *testing.T) {
		service := NewService(newFakeRepository())

		err := service.Delete(context.Background(), "jazz")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
	})
}
