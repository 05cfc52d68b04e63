// File: internal/handler/admin/posts.go
package admin

import (
	"errors"
	"fmt"
	"net/http"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/dto"
	"inkwell/internal/flash"
	"inkwell/internal/handler"
	"inkwell/internal/middleware"
	"inkwell/internal/model"
	"inkwell/internal/service"
	"inkwell/internal/store"
	"inkwell/internal/view"

	"github.com/labstack/echo/v4"
)

// PostsHandler 列出最新 50 篇文章
// @Summary     Manage posts
// @Tags        admin
// @Produce     html
// @Success     200 {string} string "HTML"
// @Security    CookieAuth
// @Router      /admin/posts [get]
func PostsHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		posts, err := listPosts(c.Request().Context(), db, ManagePosts, 0)
		if err != nil {
			return fail(c, flashes, "/admin/dashboard", "Error loading posts", err)
		}
		return handler.Render(c, flashes, http.StatusOK, "admin_posts", "Manage Posts", view.PostListData{Posts: posts})
	}
}

// NewPostHandler 新增文章表單
// @Summary     New post form
// @Tags        admin
// @Produce     html
// @Success     200 {string} string "HTML"
// @Security    CookieAuth
// @Router      /admin/posts/new [get]
func NewPostHandler(flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handler.Render(c, flashes, http.StatusOK, "post_form", "New Post", view.PostFormData{})
	}
}

// EditPostHandler 編輯文章表單
// @Summary     Edit post form
// @Tags        admin
// @Produce     html
// @Param       id path int true "文章 ID"
// @Success     200 {string} string "HTML"
// @Failure     404 {string} string "HTML"
// @Security    CookieAuth
// @Router      /admin/posts/edit/{id} [get]
func EditPostHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.RenderError(c, http.StatusNotFound, "Post not found")
		}
		p, err := getPostByID(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.RenderError(c, http.StatusNotFound, "Post not found")
		}
		if err != nil {
			return fail(c, flashes, "/admin/posts", "Error loading post", err)
		}
		return handler.Render(c, flashes, http.StatusOK, "post_form", "Edit Post", view.PostFormData{Post: p})
	}
}

// CreatePostHandler 建立文章，slug 由標題產生，作者為目前登入者
// @Summary     Create post
// @Tags        admin
// @Accept      application/x-www-form-urlencoded
// @Param       title   formData string true  "標題"
// @Param       content formData string false "內容"
// @Param       status  formData string false "draft 或 published，預設 draft"
// @Success     303 {string} string "redirect"
// @Security    CookieAuth
// @Router      /admin/posts/create [post]
func CreatePostHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var form dto.PostForm
		if err := c.Bind(&form); err != nil {
			return flashes.Redirect(c, "/admin/posts/new", flash.Error, "Error creating post")
		}
		form.Normalize()
		if err := c.Validate(&form); err != nil {
			return flashes.Redirect(c, "/admin/posts/new", flash.Error, dto.PostMessages.First(err, "Error creating post"))
		}

		p := &model.Post{
			Title:   form.Title,
			Slug:    service.Slugify(form.Title),
			Content: form.Content,
			Status:  form.PostStatus(),
		}
		if claims := middleware.CurrentUser(c); claims != nil {
			authorID := claims.ID
			p.AuthorID = &authorID
		}
		if _, err := createPost(c.Request().Context(), db, p); err != nil {
			return fail(c, flashes, "/admin/posts/new", "Error creating post", err)
		}
		return flashes.Redirect(c, "/admin/posts", flash.Success, "Post created successfully")
	}
}

// UpdatePostHandler 更新文章並重新產生 slug，新舊 slug 的快取都會失效
// @Summary     Update post
// @Tags        admin
// @Accept      application/x-www-form-urlencoded
// @Param       id      path     int    true  "文章 ID"
// @Param       title   formData string true  "標題"
// @Param       content formData string false "內容"
// @Param       status  formData string false "draft 或 published"
// @Success     303 {string} string "redirect"
// @Failure     404 {string} string "HTML"
// @Security    CookieAuth
// @Router      /admin/posts/update/{id} [post]
func UpdatePostHandler(db database.DB, posts *cache.PostCache, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, ok := parseID(c)
		if !ok {
			return handler.RenderError(c, http.StatusNotFound, "Post not found")
		}
		editURL := fmt.Sprintf("/admin/posts/edit/%d", id)

		var form dto.PostForm
		if err := c.Bind(&form); err != nil {
			return flashes.Redirect(c, editURL, flash.Error, "Error updating post")
		}
		form.Normalize()
		if err := c.Validate(&form); err != nil {
			return flashes.Redirect(c, editURL, flash.Error, dto.PostMessages.First(err, "Error updating post"))
		}

		old, err := getPostByID(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.RenderError(c, http.StatusNotFound, "Post not found")
		}
		if err != nil {
			return fail(c, flashes, "/admin/posts", "Error updating post", err)
		}

		p := &model.Post{
			ID:      id,
			Title:   form.Title,
			Slug:    service.Slugify(form.Title),
			Content: form.Content,
			Status:  form.PostStatus(),
		}
		if _, err := updatePost(ctx, db, p); err != nil {
			return fail(c, flashes, "/admin/posts", "Error updating post", err)
		}
		posts.Invalidate(ctx, old.Slug, p.Slug)
		return flashes.Redirect(c, "/admin/posts", flash.Success, "Post updated successfully")
	}
}

// DeletePostHandler 刪除文章
// @Summary     Delete post
// @Tags        admin
// @Param       id path int true "文章 ID"
// @Success     303 {string} string "redirect"
// @Failure     404 {string} string "HTML"
// @Security    CookieAuth
// @Router      /admin/posts/delete/{id} [post]
func DeletePostHandler(db database.DB, posts *cache.PostCache, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, ok := parseID(c)
		if !ok {
			return handler.RenderError(c, http.StatusNotFound, "Post not found")
		}
		slug, err := deletePost(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.RenderError(c, http.StatusNotFound, "Post not found")
		}
		if err != nil {
			return fail(c, flashes, "/admin/posts", "Error deleting post", err)
		}
		posts.Invalidate(ctx, slug)
		return flashes.Redirect(c, "/admin/posts", flash.Success, "Post deleted successfully")
	}
}
