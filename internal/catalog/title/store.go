// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package title

import "context"

// Filter narrows a title listing. Zero values mean "no constraint".
type Filter struct {
	// CategorySlug matches titles in the category with this slug.
	CategorySlug string
	// GenreSlug matches titles carrying the genre with this slug.
	GenreSlug string
	// Name matches titles whose name contains this substring,
	// case-insensitively.
	Name string
	// Year matches titles released in exactly this year.
	Year *int
}

// Repository defines the persistence operations for titles.
type Repository interface {
	// List returns a page of titles matching the filter, ordered by name,
	// together with the total count. Each title is returned with its
	// category, genres, and computed rating.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Title, int, error)

	// FindByID returns a single title with category, genres, and rating.
	FindByID(ctx context.Context, id int64) (*Title, error)

	// Create persists a new title and its genre associations, filling in
	// the title's id.
	Create(ctx context.Context, t *Title, genreIDs []int) error

	// Update rewrites the title's scalar fields and category reference.
	// When replaceGenres is true the genre associations are replaced with
	// genreIDs; otherwise they are left untouched.
	Update(ctx context.Context, t *Title, genreIDs []int, replaceGenres bool) error

	// Delete removes the title together with its reviews and their
	// comments, in one transaction.
	Delete(ctx context.Context, id int64) error
}
