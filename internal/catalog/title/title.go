// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

// Package title implements the catalogued works that users review.
//
// A title belongs to at most one category, carries any number of genres,
// and exposes a read-only rating derived from its review scores.
package title

import (
	"github.com/critikahq/critika/internal/catalog/category"
	"github.com/critikahq/critika/internal/catalog/genre"
)

// Title is a catalogued work (a film, a book, an album).
//
// Rating is the mean of the title's review scores, or nil when the title
// has no reviews yet. It is computed at read time and never stored.
type Title struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Rating      *float64           `json:"rating"`
	Description string             `json:"description"`
	Genres      []*genre.Genre     `json:"genre"`
	Category    *category.Category `json:"category"`
}

// Field identifiers used in validation errors.
const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldGenre       = "genre"
	FieldCategory    = "category"
)
