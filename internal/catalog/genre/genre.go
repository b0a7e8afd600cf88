package genre

// Genre tags titles with a narrower classification than category
// (e.g. "drama", "rock"). A title may carry several genres.
type Genre struct {
	ID   int    `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Field identifiers used in validation errors.
const (
	FieldName = "name"
	FieldSlug = "slug"
)
