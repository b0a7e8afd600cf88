package category

import "context"

// Repository defines the persistence operations for categories.
type Repository interface {
	// List returns a page of categories ordered by name, together with the
	// total count. An empty name filter matches everything; a non-empty one
	// matches the exact name.
	List(ctx context.Context, name string, limit, offset int) ([]*Category, int, error)

	// FindBySlug returns the category with the given slug.
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// Create persists a new category and fills in its id.
	Create(ctx context.Context, c *Category) error

	// DeleteBySlug removes the category and detaches every title that
	// referenced it.
	DeleteBySlug(ctx context.Context, slug string) error
}
