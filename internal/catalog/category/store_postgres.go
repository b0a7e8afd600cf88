package category

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

// NewPostgresRepository creates a postgres-backed category repository.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context, name string, limit, offset int) ([]*Category, int, error) {
	t := schema.CatalogCategory

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
		return nil, 0, dberr.Wrap(err, "list categories")
	}
	defer rows.Close()

	var (
		categories []*Category
		total      int
	)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan category")
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate categories")
	}
	return categories, total, nil
}

func (r *postgresRepository) FindBySlug(ctx context.Context, slug string) (*Category, error) {
	t := schema.CatalogCategory

	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		t.ID, t.Name, t.Slug, t.Table, t.Slug)

	var c Category
	if err := r.db.QueryRow(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug); err != nil {
		return nil, dberr.Wrap(err, "find category by slug")
	}
	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, c *Category) error {
	t := schema.CatalogCategory

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s`,
		t.Table, t.Name, t.Slug, t.ID)

	if err := r.db.QueryRow(ctx, query, c.Name, c.Slug).Scan(&c.ID); err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldSlug, Message: "Slug is already in use"})
		}
		return dberr.Wrap(err, "create category")
	}
	return nil
}

func (r *postgresRepository) DeleteBySlug(ctx context.Context, slug string) error {
	cat := schema.CatalogCategory
	title := schema.CatalogTitle

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin delete category")
	}
	defer tx.Rollback(ctx)

	detach := fmt.Sprintf(`
		UPDATE %s SET %s = NULL
		WHERE %s = (SELECT %s FROM %s WHERE %s = $1)`,
		title.Table, title.CategoryID, title.CategoryID, cat.ID, cat.Table, cat.Slug)
	if _, err := tx.Exec(ctx, detach, slug); err != nil {
		return dberr.Wrap(err, "detach titles from category")
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", cat.Table, cat.Slug)
	tag, err := tx.Exec(ctx, del, slug)
	if err != nil {
		return dberr.Wrap(err, "delete category")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit delete category")
	}
	return nil
}
