package genre

import "context"

// Repository defines the persistence operations for genres.
type Repository interface {
	// List returns a page of genres ordered by name, together with the total
	// count. An empty name filter matches everything; a non-empty one matches
	// the exact name.
	List(ctx context.Context, name string, limit, offset int) ([]*Genre, int, error)

	// FindBySlugs returns the genres whose slugs appear in the given set.
	// Unknown slugs are silently absent from the result; callers compare
	// lengths to detect them.
	FindBySlugs(ctx context.Context, slugs []string) ([]*Genre, error)

	// Create persists a new genre and fills in its id.
	Create(ctx context.Context, g *Genre) error

	// DeleteBySlug removes the genre and its title associations.
	DeleteBySlug(ctx context.Context, slug string) error
}
