// Package admin 需要 admin 角色的管理頁面，路由層負責掛上 RequireAuth 與 RequireAdmin
package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/internal/database"
	"inkwell/internal/flash"
	"inkwell/internal/handler"
	"inkwell/internal/store"
	"inkwell/internal/view"

	"github.com/labstack/echo/v4"
)

const (
	// DashboardPosts dashboard 顯示的最新文章數
	DashboardPosts = 5
	// ManagePosts 文章管理頁最多列出的文章數
	ManagePosts = 50
)

var (
	listPosts      = store.ListPosts
	getPostByID    = store.GetPostByID
	createPost     = store.CreatePost
	updatePost     = store.UpdatePost
	deletePost     = store.DeletePost
	listCategories = store.ListCategories
	createCategory = store.CreateCategory
	deleteCategory = store.DeleteCategory
)

// parseID 解析 :id，非正整數回傳 false
func parseID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// fail 記錄 store 錯誤後帶著通用訊息導向
func fail(c echo.Context, flashes *flash.Messenger, url, msg string, err error) error {
	slog.ErrorContext(c.Request().Context(), msg, "path", c.Request().URL.Path, "err", err)
	return flashes.Redirect(c, url, flash.Error, msg)
}

// DashboardHandler 管理首頁
// @Summary     Dashboard
// @Tags        admin
// @Produce     html
// @Success     200 {string} string "HTML"
// @Failure     303 {string} string "未登入或非 admin"
// @Security    CookieAuth
// @Router      /admin/dashboard [get]
func DashboardHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		posts, err := listPosts(c.Request().Context(), db, DashboardPosts, 0)
		if err != nil {
			return fail(c, flashes, "/", "Error loading dashboard", err)
		}
		return handler.Render(c, flashes, http.StatusOK, "dashboard", "Dashboard", view.PostListData{Posts: posts})
	}
}
