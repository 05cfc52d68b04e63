// File: internal/handler/auth/logout.go
package auth

import (
	"inkwell/internal/flash"
	"inkwell/internal/middleware"

	"github.com/labstack/echo/v4"
)

// LogoutHandler 清除 token cookie；token 本身不撤銷，到期前仍然有效
// @Summary     登出
// @Tags        auth
// @Success     303 {string} string "redirect"
// @Router      /auth/logout [get]
func LogoutHandler(flashes *flash.Messenger, cookie CookieConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		middleware.ClearToken(c, cookie.Secure)
		return flashes.Redirect(c, "/", flash.Success, "Logged out successfully")
	}
}
