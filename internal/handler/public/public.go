// Package public 不需登入的閱讀頁面
package public

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/internal/cache"
	"inkwell/internal/database"
	"inkwell/internal/flash"
	"inkwell/internal/handler"
	"inkwell/internal/store"
	"inkwell/internal/view"

	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"
)

// PerPage 首頁每頁文章數
const PerPage = 10

var (
	listPosts         = store.ListPosts
	countPosts        = store.CountPosts
	getPostBySlug     = store.GetPostBySlug
	getCategoryBySlug = store.GetCategoryBySlug
)

// HomeHandler 首頁，依建立時間新到舊分頁列出文章
// @Summary     Home
// @Description 列出最新文章，每頁 10 篇
// @Tags        public
// @Produce     html
// @Param       page query int false "頁碼，從 1 開始"
// @Success     200 {string} string "HTML"
// @Failure     500 {string} string "HTML"
// @Router      / [get]
func HomeHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		page, err := strconv.Atoi(c.QueryParam("page"))
		if err != nil || page < 1 {
			page = 1
		}

		posts, err := listPosts(ctx, db, PerPage, (page-1)*PerPage)
		if err != nil {
			slog.ErrorContext(ctx, "list posts", "err", err)
			return handler.RenderError(c, http.StatusInternalServerError, "Error loading posts")
		}
		total, err := countPosts(ctx, db)
		if err != nil {
			slog.ErrorContext(ctx, "count posts", "err", err)
			return handler.RenderError(c, http.StatusInternalServerError, "Error loading posts")
		}

		data := view.HomeData{Posts: posts, Page: page}
		if page > 1 {
			data.PrevPage = page - 1
		}
		if page*PerPage < total {
			data.NextPage = page + 1
		}
		return handler.Render(c, flashes, http.StatusOK, "home", "Home", data)
	}
}

// PostHandler 依 slug 顯示文章，有設定 redis 時先查快取
// @Summary     Show post
// @Tags        public
// @Produce     html
// @Param       slug path string true "文章 slug"
// @Success     200 {string} string "HTML"
// @Failure     404 {string} string "HTML"
// @Failure     500 {string} string "HTML"
// @Router      /post/{slug} [get]
func PostHandler(db database.DB, posts *cache.PostCache, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		s := c.Param("slug")
		if !slug.IsSlug(s) {
			return handler.RenderError(c, http.StatusNotFound, "Post not found")
		}

		p, ok := posts.Get(ctx, s)
		if !ok {
			var err error
			p, err = getPostBySlug(ctx, db, s)
			if errors.Is(err, store.ErrNotFound) {
				return handler.RenderError(c, http.StatusNotFound, "Post not found")
			}
			if err != nil {
				slog.ErrorContext(ctx, "get post", "slug", s, "err", err)
				return handler.RenderError(c, http.StatusInternalServerError, "Error loading post")
			}
			posts.Set(ctx, p)
		}
		return handler.Render(c, flashes, http.StatusOK, "post", p.Title, view.PostData{Post: p})
	}
}

// CategoryHandler 依 slug 顯示分類
// @Summary     Show category
// @Tags        public
// @Produce     html
// @Param       slug path string true "分類 slug"
// @Success     200 {string} string "HTML"
// @Failure     404 {string} string "HTML"
// @Failure     500 {string} string "HTML"
// @Router      /category/{slug} [get]
func CategoryHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		s := c.Param("slug")
		if !slug.IsSlug(s) {
			return handler.RenderError(c, http.StatusNotFound, "Category not found")
		}

		cat, err := getCategoryBySlug(ctx, db, s)
		if errors.Is(err, store.ErrNotFound) {
			return handler.RenderError(c, http.StatusNotFound, "Category not found")
		}
		if err != nil {
			slog.ErrorContext(ctx, "get category", "slug", s, "err", err)
			return handler.RenderError(c, http.StatusInternalServerError, "Error loading category")
		}
		return handler.Render(c, flashes, http.StatusOK, "category", cat.Name, view.CategoryData{Category: cat})
	}
}
