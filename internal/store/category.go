package store

import (
	"context"

	"inkwell/internal/database"
	"inkwell/internal/model"

	"github.com/georgysavva/scany/v2/pgxscan"
)

func CreateCategory(ctx context.Context, db database.DB, c *model.Category) (*model.Category, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO categories (name, slug)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		c.Name,
		c.Slug,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, wrap("CreateCategory", err)
	}
	return c, nil
}

// ListCategories 依名稱排序
func ListCategories(ctx context.Context, db database.DB) ([]model.Category, error) {
	query, args, err := psql.Select("id", "name", "slug", "created_at").
		From("categories").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, wrap("ListCategories", err)
	}
	categories := []model.Category{}
	if err := pgxscan.Select(ctx, db, &categories, query, args...); err != nil {
		return nil, wrap("ListCategories", err)
	}
	return categories, nil
}

func GetCategoryBySlug(ctx context.Context, db database.DB, slug string) (*model.Category, error) {
	query, args, err := psql.Select("id", "name", "slug", "created_at").
		From("categories").
		Where("slug = ?", slug).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, wrap("GetCategoryBySlug", err)
	}
	c := &model.Category{}
	if err := pgxscan.Get(ctx, db, c, query, args...); err != nil {
		return nil, wrap("GetCategoryBySlug", err)
	}
	return c, nil
}

func DeleteCategory(ctx context.Context, db database.DB, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return wrap("DeleteCategory", err)
	}
	if tag.RowsAffected() == 0 {
		return wrap("DeleteCategory", ErrNotFound)
	}
	return nil
}
