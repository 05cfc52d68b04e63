package store

import (
	"context"

	"inkwell/internal/database"
	"inkwell/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

var postColumns = []string{
	"p.id",
	"p.title",
	"p.slug",
	"p.content",
	"p.status",
	"p.author_id",
	"COALESCE(u.username, '') AS author",
	"p.created_at",
	"p.updated_at",
}

func selectPosts() squirrel.SelectBuilder {
	return psql.Select(postColumns...).
		From("posts p").
		LeftJoin("users u ON p.author_id = u.id")
}

// CreatePost 建立文章，status 為空時視為 draft
func CreatePost(ctx context.Context, db database.DB, p *model.Post) (*model.Post, error) {
	if p.Status == "" {
		p.Status = model.StatusDraft
	}
	row := db.QueryRow(ctx,
		`INSERT INTO posts (title, slug, content, author_id, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		p.Title,
		p.Slug,
		p.Content,
		p.AuthorID,
		p.Status,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, wrap("CreatePost", err)
	}
	return p, nil
}

// ListPosts 依 created_at 由新到舊分頁列出，不過濾 status
func ListPosts(ctx context.Context, db database.DB, limit, offset int) ([]model.Post, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	query, args, err := selectPosts().
		OrderBy("p.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, wrap("ListPosts", err)
	}
	posts := []model.Post{}
	if err := pgxscan.Select(ctx, db, &posts, query, args...); err != nil {
		return nil, wrap("ListPosts", err)
	}
	return posts, nil
}

func CountPosts(ctx context.Context, db database.DB) (int, error) {
	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, wrap("CountPosts", err)
	}
	return n, nil
}

// GetPostBySlug slug 不唯一時回傳最新的一篇
func GetPostBySlug(ctx context.Context, db database.DB, slug string) (*model.Post, error) {
	query, args, err := selectPosts().
		Where("p.slug = ?", slug).
		OrderBy("p.created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, wrap("GetPostBySlug", err)
	}
	p := &model.Post{}
	if err := pgxscan.Get(ctx, db, p, query, args...); err != nil {
		return nil, wrap("GetPostBySlug", err)
	}
	return p, nil
}

func GetPostByID(ctx context.Context, db database.DB, id int) (*model.Post, error) {
	query, args, err := selectPosts().Where("p.id = ?", id).ToSql()
	if err != nil {
		return nil, wrap("GetPostByID", err)
	}
	p := &model.Post{}
	if err := pgxscan.Get(ctx, db, p, query, args...); err != nil {
		return nil, wrap("GetPostByID", err)
	}
	return p, nil
}

// UpdatePost 更新標題、slug、內容與狀態，回傳 updated_at
func UpdatePost(ctx context.Context, db database.DB, p *model.Post) (*model.Post, error) {
	row := db.QueryRow(ctx,
		`UPDATE posts
		 SET title = $1, slug = $2, content = $3, status = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING updated_at`,
		p.Title,
		p.Slug,
		p.Content,
		p.Status,
		p.ID,
	)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		return nil, wrap("UpdatePost", err)
	}
	return p, nil
}

// DeletePost 刪除並回傳原本的 slug，供快取失效使用
func DeletePost(ctx context.Context, db database.DB, id int) (string, error) {
	var slug string
	row := db.QueryRow(ctx, `DELETE FROM posts WHERE id = $1 RETURNING slug`, id)
	if err := row.Scan(&slug); err != nil {
		return "", wrap("DeletePost", err)
	}
	return slug, nil
}
