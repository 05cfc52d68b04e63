package handler

import (
	"inkwell/internal/flash"
	"inkwell/internal/middleware"
	"inkwell/internal/view"

	"github.com/labstack/echo/v4"
)

// Render 組出共用的 Page 後交給 echo.Renderer，會取出一次性的 flash
func Render(c echo.Context, flashes *flash.Messenger, code int, name, title string, data any) error {
	page := view.Page{
		Title:   title,
		User:    middleware.CurrentUser(c),
		Flashes: flashes.Pop(c),
		Data:    data,
	}
	return c.Render(code, name, page)
}

// RenderError 直接渲染 error 頁面
func RenderError(c echo.Context, code int, message string) error {
	return c.Render(code, "error", view.Page{
		Title: "Error",
		User:  middleware.CurrentUser(c),
		Data:  view.ErrorData{Status: code, Message: message},
	})
}
