// File: internal/handler/auth/register.go
package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/database"
	"inkwell/internal/dto"
	"inkwell/internal/flash"
	"inkwell/internal/handler"
	"inkwell/internal/model"
	"inkwell/internal/service"

	"github.com/labstack/echo/v4"
)

var registerUser = service.RegisterUser

// RegisterFormHandler 顯示註冊表單
// @Summary     註冊表單
// @Tags        auth
// @Produce     html
// @Success     200 {string} string "HTML"
// @Router      /auth/register [get]
func RegisterFormHandler(flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handler.Render(c, flashes, http.StatusOK, "register", "Register", nil)
	}
}

// RegisterHandler 驗證表單後建立一般使用者
// @Summary     註冊使用者
// @Description 使用者名稱至少 3 字元、Email 格式正確、密碼至少 6 字元；成功後導向登入頁
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     html
// @Param       username formData string true "使用者名稱"
// @Param       email    formData string true "Email"
// @Param       password formData string true "密碼"
// @Success     303 {string} string "redirect"
// @Router      /auth/register [post]
func RegisterHandler(db database.DB, hasher *service.Hasher, flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return flashes.Redirect(c, "/auth/register", flash.Error, "Registration failed")
		}
		req.Normalize()
		if err := c.Validate(&req); err != nil {
			return flashes.Redirect(c, "/auth/register", flash.Error, dto.RegisterMessages.First(err, "Registration failed"))
		}

		ctx := c.Request().Context()
		_, err := registerUser(ctx, db, hasher, req.Username, req.Email, req.Password, model.RoleUser)
		if errors.Is(err, service.ErrEmailTaken) {
			return flashes.Redirect(c, "/auth/register", flash.Error, "Email already registered")
		}
		if err != nil {
			slog.ErrorContext(ctx, "register user", "email", req.Email, "err", err)
			return flashes.Redirect(c, "/auth/register", flash.Error, "Registration failed")
		}
		return flashes.Redirect(c, "/auth/login", flash.Success, "Registration successful! Please login.")
	}
}
