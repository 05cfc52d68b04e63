// File: internal/handler/admin/categories.go
package admin

import (
	"errors"
	"net/http"

	"inkwell/internal/database"
	"inkwell/internal/dto"
	"inkwell/internal/flash"
	"inkwell/internal/handler"
	"inkwell/internal/model"
	"inkwell/internal/service"
	"inkwell/internal/store"
	"inkwell/internal/view"

	"github.com/labstack/echo/v4"
)

// CategoriesHandler 依名稱排序列出全部分類
// @Summary     Manage categories
// @Tags        admin
// @Produce     html
// @Success     200 {string} string "HTML"
// @Security    CookieAuth
// @Router      /admin/categories [get]
func CategoriesHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		cats, err := listCategories(c.Request().Context(), db)
		if err != nil {
			return fail(c, flashes, "/admin/dashboard", "Error loading categories", err)
		}
		return handler.Render(c, flashes, http.StatusOK, "admin_categories", "Categories", view.CategoriesData{Categories: cats})
	}
}

// CreateCategoryHandler 建立分類，slug 由名稱產生
// @Summary     Create category
// @Tags        admin
// @Accept      application/x-www-form-urlencoded
// @Param       name formData string true "分類名稱"
// @Success     303 {string} string "redirect"
// @Security    CookieAuth
// @Router      /admin/categories/create [post]
func CreateCategoryHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var form dto.CategoryForm
		if err := c.Bind(&form); err != nil {
			return flashes.Redirect(c, "/admin/categories", flash.Error, "Error creating category")
		}
		form.Normalize()
		if err := c.Validate(&form); err != nil {
			return flashes.Redirect(c, "/admin/categories", flash.Error, dto.CategoryMessages.First(err, "Error creating category"))
		}

		cat := &model.Category{Name: form.Name, Slug: service.Slugify(form.Name)}
		if _, err := createCategory(c.Request().Context(), db, cat); err != nil {
			return fail(c, flashes, "/admin/categories", "Error creating category", err)
		}
		return flashes.Redirect(c, "/admin/categories", flash.Success, "Category created successfully")
	}
}

// DeleteCategoryHandler 刪除分類
// @Summary     Delete category
// @Tags        admin
// @Param       id path int true "分類 ID"
// @Success     303 {string} string "redirect"
// @Failure     404 {string} string "HTML"
// @Security    CookieAuth
// @Router      /admin/categories/delete/{id} [post]
func DeleteCategoryHandler(db database.DB, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return handler.RenderError(c, http.StatusNotFound, "Category not found")
		}
		err := deleteCategory(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.RenderError(c, http.StatusNotFound, "Category not found")
		}
		if err != nil {
			return fail(c, flashes, "/admin/categories", "Error deleting category", err)
		}
		return flashes.Redirect(c, "/admin/categories", flash.Success, "Category deleted successfully")
	}
}
