// File: internal/dto/post_form.go
package dto

import (
	"strings"

	"inkwell/internal/model"
)

// swagger:model dto.PostForm
type PostForm struct {
	Title   string `form:"title" validate:"required" example:"Hello World!"`
	Content string `form:"content" example:"第一篇文章"`
	Status  string `form:"status" validate:"omitempty,oneof=draft published" example:"published"`
}

func (f *PostForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Status = strings.TrimSpace(f.Status)
}

// PostStatus 未填時為 draft
func (f *PostForm) PostStatus() model.PostStatus {
	if f.Status == "" {
		return model.StatusDraft
	}
	return model.PostStatus(f.Status)
}

var PostMessages = Messages{
	"Title":  "Title is required",
	"Status": "Invalid status",
}
