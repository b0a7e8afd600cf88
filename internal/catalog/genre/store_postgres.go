package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/database/schema"
	"github.com/critikahq/critika/internal/platform/dberr"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a postgres-backed genre repository.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context, name string, limit, offset int) ([]*Genre, int, error) {
	t := schema.CatalogGenre

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total
		FROM %s`,
		t.ID, t.Name, t.Slug, t.Table)

	args := []any{}
	if name != "" {
		query += fmt.Sprintf(" WHERE %s = $1", t.Name)
		args = append(args, name)
	}
	query += fmt.Sprintf(" ORDER BY %s ASC LIMIT $%d OFFSET $%d", t.Name, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list genres")
	}
	defer rows.Close()

	var (
		genres []*Genre
		total  int
	)
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan genre")
		}
		genres = append(genres, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate genres")
	}
	return genres, total, nil
}

func (r *postgresRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	t := schema.CatalogGenre

	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s ASC`,
		t.ID, t.Name, t.Slug, t.Table, t.Slug, t.Name)

	rows, err := r.db.Query(ctx, query, slugs)
	if err != nil {
		return nil, dberr.Wrap(err, "find genres by slugs")
	}
	defer rows.Close()

	var genres []*Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug); err != nil {
			return nil, dberr.Wrap(err, "scan genre")
		}
		genres = append(genres, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate genres")
	}
	return genres, nil
}

func (r *postgresRepository) Create(ctx context.Context, g *Genre) error {
	t := schema.CatalogGenre

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s`,
		t.Table, t.Name, t.Slug, t.ID)

	if err := r.db.QueryRow(ctx, query, g.Name, g.Slug).Scan(&g.ID); err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldSlug, Message: "Slug is already in use"})
		}
		return dberr.Wrap(err, "create genre")
	}
	return nil
}

func (r *postgresRepository) DeleteBySlug(ctx context.Context, slug string) error {
	gen := schema.CatalogGenre
	junction := schema.CatalogTitleGenre

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin delete genre")
	}
	defer tx.Rollback(ctx)

	detach := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = (SELECT %s FROM %s WHERE %s = $1)`,
		junction.Table, junction.GenreID, gen.ID, gen.Table, gen.Slug)
	if _, err := tx.Exec(ctx, detach, slug); err != nil {
		return dberr.Wrap(err, "detach titles from genre")
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", gen.Table, gen.Slug)
	tag, err := tx.Exec(ctx, del, slug)
	if err != nil {
		return dberr.Wrap(err, "delete genre")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit delete genre")
	}
	return nil
}
