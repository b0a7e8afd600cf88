package category

// Category groups titles by broad kind of work (films, books, music).
//
// The slug is the stable external identifier; the numeric id never leaves
// the storage layer.
type Category struct {
	ID   int    `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Field identifiers used in validation errors.
const (
	FieldName = "name"
	FieldSlug = "slug"
)
