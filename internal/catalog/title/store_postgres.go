// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package title

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/critikahq/critika/internal/catalog/category"
	"github.com/critikahq/critika/internal/catalog/genre"
	"github.com/critikahq/critika/internal/platform/database/schema"
	"github.com/critikahq/critika/internal/platform/dberr"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a postgres-backed title repository.
func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// titleSelect is the shared projection for title reads: scalar columns, the
// left-joined category, and the rating aggregated from review scores.
func titleSelect(extra string) string {
	t := schema.CatalogTitle
	c := schema.CatalogCategory
	r := schema.SocialReview

	return fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s,
		       c.%s, c.%s, c.%s,
		       (SELECT AVG(r.%s)::float8 FROM %s r WHERE r.%s = t.%s)%s
		FROM %s t
		LEFT JOIN %s c ON c.%s = t.%s`,
		t.ID, t.Name, t.Year, t.Description,
		c.ID, c.Name, c.Slug,
		r.Score, r.Table, r.TitleID, t.ID, extra,
		t.Table,
		c.Table, c.ID, t.CategoryID)
}

// scanTitle reads one projection row. The category columns and rating are
// nullable.
func scanTitle(row pgx.Row, extra ...any) (*Title, error) {
	var (
		t          Title
		categoryID *int
		name, slug *string
	)
	dest := []any{&t.ID, &t.Name, &t.Year, &t.Description, &categoryID, &name, &slug, &t.Rating}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if categoryID != nil {
		t.Category = &category.Category{ID: *categoryID, Name: *name, Slug: *slug}
	}
	t.Genres = []*genre.Genre{}
	return &t, nil
}

func (r *postgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Title, int, error) {
	t := schema.CatalogTitle
	c := schema.CatalogCategory
	g := schema.CatalogGenre
	tg := schema.CatalogTitleGenre

	query := titleSelect(", COUNT(*) OVER() AS total")
	args := []any{}
	where := ""

	and := func(condition string, value any) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		args = append(args, value)
		where += fmt.Sprintf(condition, len(args))
	}

	if filter.CategorySlug != "" {
		and("c."+c.Slug+" = $%d", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		exists := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s WHERE tg.%s = t.%s AND g.%s = $%%d)",
			tg.Table, g.Table, g.ID, tg.GenreID, tg.TitleID, t.ID, g.Slug)
		and(exists, filter.GenreSlug)
	}
	if filter.Name != "" {
		and("t."+t.Name+" ILIKE '%%' || $%d || '%%'", filter.Name)
	}
	if filter.Year != nil {
		and("t."+t.Year+" = $%d", *filter.Year)
	}

	query += where
	query += fmt.Sprintf(" ORDER BY t.%s ASC, t.%s ASC LIMIT $%d OFFSET $%d", t.Name, t.ID, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list titles")
	}
	defer rows.Close()

	var (
		titles []*Title
		total  int
	)
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan title")
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate titles")
	}

	if err := r.attachGenres(ctx, titles); err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*Title, error) {
	t := schema.CatalogTitle

	query := titleSelect("") + fmt.Sprintf(" WHERE t.%s = $1", t.ID)

	title, err := scanTitle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find title by id")
	}

	if err := r.attachGenres(ctx, []*Title{title}); err != nil {
		return nil, err
	}
	return title, nil
}

// attachGenres batch-loads the genre associations for the given titles.
func (r *postgresRepository) attachGenres(ctx context.Context, titles []*Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(titles))
	byID := make(map[int64]*Title, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
		byID[t.ID] = t
	}

	g := schema.CatalogGenre
	tg := schema.CatalogTitleGenre

	query := fmt.Sprintf(`
		SELECT tg.%s, g.%s, g.%s, g.%s
		FROM %s tg
		JOIN %s g ON g.%s = tg.%s
		WHERE tg.%s = ANY($1)
		ORDER BY g.%s ASC`,
		tg.TitleID, g.ID, g.Name, g.Slug,
		tg.Table,
		g.Table, g.ID, tg.GenreID,
		tg.TitleID, g.Name)

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return dberr.Wrap(err, "load title genres")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID int64
			item    genre.Genre
		)
		if err := rows.Scan(&titleID, &item.ID, &item.Name, &item.Slug); err != nil {
			return dberr.Wrap(err, "scan title genre")
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, &item)
		}
	}
	if err := rows.Err(); err != nil {
		return dberr.Wrap(err, "iterate title genres")
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, t *Title, genreIDs []int) error {
	table := schema.CatalogTitle

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin create title")
	}
	defer tx.Rollback(ctx)

	var categoryID *int
	if t.Category != nil {
		categoryID = &t.Category.ID
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`,
		table.Table, table.Name, table.Year, table.Description, table.CategoryID, table.ID)
	if err := tx.QueryRow(ctx, insert, t.Name, t.Year, t.Description, categoryID).Scan(&t.ID); err != nil {
		return dberr.Wrap(err, "create title")
	}

	if err := insertGenres(ctx, tx, t.ID, genreIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit create title")
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, t *Title, genreIDs []int, replaceGenres bool) error {
	table := schema.CatalogTitle
	junction := schema.CatalogTitleGenre

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin update title")
	}
	defer tx.Rollback(ctx)

	var categoryID *int
	if t.Category != nil {
		categoryID = &t.Category.ID
	}

	update := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4
		WHERE %s = $5`,
		table.Table, table.Name, table.Year, table.Description, table.CategoryID, table.ID)
	tag, err := tx.Exec(ctx, update, t.Name, t.Year, t.Description, categoryID, t.ID)
	if err != nil {
		return dberr.Wrap(err, "update title")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if replaceGenres {
		clear := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", junction.Table, junction.TitleID)
		if _, err := tx.Exec(ctx, clear, t.ID); err != nil {
			return dberr.Wrap(err, "clear title genres")
		}
		if err := insertGenres(ctx, tx, t.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit update title")
	}
	return nil
}

// Delete removes the title and everything hanging off it. Comments go
// first, then reviews, then genre links, then the title row itself, all
// in one transaction so readers never observe orphaned children.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	t := schema.CatalogTitle
	junction := schema.CatalogTitleGenre
	review := schema.SocialReview
	comment := schema.SocialComment

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return dberr.Wrap(err, "begin delete title")
	}
	defer tx.Rollback(ctx)

	steps := []struct {
		action string
		query  string
	}{
		{"delete title comments", fmt.Sprintf(
			"DELETE FROM %s WHERE %s IN (SELECT %s FROM %s WHERE %s = $1)",
			comment.Table, comment.ReviewID, review.ID, review.Table, review.TitleID)},
		{"delete title reviews", fmt.Sprintf(
			"DELETE FROM %s WHERE %s = $1", review.Table, review.TitleID)},
		{"delete title genre links", fmt.Sprintf(
			"DELETE FROM %s WHERE %s = $1", junction.Table, junction.TitleID)},
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step.query, id); err != nil {
			return dberr.Wrap(err, step.action)
		}
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", t.Table, t.ID)
	tag, err := tx.Exec(ctx, del, id)
	if err != nil {
		return dberr.Wrap(err, "delete title")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit delete title")
	}
	return nil
}

// insertGenres writes the junction rows for a title.
func insertGenres(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}
	junction := schema.CatalogTitleGenre

	insert := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		junction.Table, junction.TitleID, junction.GenreID)
	for _, genreID := range genreIDs {
		if _, err := tx.Exec(ctx, insert, titleID, genreID); err != nil {
			return dberr.Wrap(err, "attach title genre")
		}
	}
	return nil
}
