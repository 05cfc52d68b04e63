// File: internal/model/post.go
package model

import "time"

type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type Post struct {
	ID       int        `db:"id" json:"id"`
	Title    string     `db:"title" json:"title"`
	Slug     string     `db:"slug" json:"slug"`
	Content  string     `db:"content" json:"content"`
	Status   PostStatus `db:"status" json:"status"`
	AuthorID *int       `db:"author_id" json:"author_id,omitempty"`
	// AuthorName 由 LEFT JOIN users 帶出，作者被刪除時為空字串
	AuthorName string    `db:"author" json:"author"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

type Category struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
