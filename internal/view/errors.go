package view

import (
	"errors"
	"net/http"

	"inkwell/internal/middleware"

	"github.com/labstack/echo/v4"
)

// ErrorHandler 以 error 頁面取代 echo 預設的 JSON 錯誤
func ErrorHandler(next echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Something went wrong"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch code {
			case http.StatusNotFound:
				msg = "Page not found"
			case http.StatusInternalServerError:
			default:
				if m, ok := he.Message.(string); ok {
					msg = m
				} else {
					msg = http.StatusText(code)
				}
			}
		}
		if code >= http.StatusInternalServerError {
			c.Logger().Error(err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		page := Page{
			Title: "Error",
			User:  middleware.CurrentUser(c),
			Data:  ErrorData{Status: code, Message: msg},
		}
		if rerr := c.Render(code, "error", page); rerr != nil && next != nil {
			next(err, c)
		}
	}
}

// ErrorData error 頁面內容
type ErrorData struct {
	Status  int
	Message string
}
