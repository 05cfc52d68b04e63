// File: internal/handler/auth/login.go
package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/dto"
	"inkwell/internal/flash"
	"inkwell/internal/handler"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/service"
	"inkwell/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByEmail   = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
)

// CookieConfig token cookie 的壽命與 Secure 旗標，與 token 有效期限分開設定
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

// LoginFormHandler 顯示登入表單
// @Summary     登入表單
// @Tags        auth
// @Produce     html
// @Success     200 {string} string "HTML"
// @Router      /auth/login [get]
func LoginFormHandler(flashes *flash.Messenger) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handler.Render(c, flashes, http.StatusOK, "login", "Login", nil)
	}
}

// LoginHandler 使用 Email/Password 驗證並寫入 token cookie
// @Summary     登入使用者
// @Description 驗證成功後寫入 httpOnly 的 token cookie 並導向 /admin/dashboard；Email 不存在與密碼錯誤回應相同
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     html
// @Param       email    formData string true "Email"
// @Param       password formData string true "使用者密碼"
// @Success     303 {string} string "redirect"
// @Router      /auth/login [post]
func LoginHandler(db database.DB, hasher *service.Hasher, tokens *service.TokenIssuer, flashes *flash.Messenger, cookie CookieConfig, m *metrics.Metrics) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		// 先 Bind
		if err := c.Bind(&req); err != nil {
			return flashes.Redirect(c, "/auth/login", flash.Error, "Login failed")
		}
		req.Normalize()
		// 再驗證結構化參數 (go-playground/validator)
		if err := c.Validate(&req); err != nil {
			m.Login(false)
			return flashes.Redirect(c, "/auth/login", flash.Error, dto.LoginMessages.First(err, "Invalid credentials"))
		}

		ctx := c.Request().Context()
		// 撈使用者資料
		user, err := getUserByEmail(ctx, db, req.Email)
		if errors.Is(err, store.ErrNotFound) {
			m.Login(false)
			return flashes.Redirect(c, "/auth/login", flash.Error, "Invalid credentials")
		}
		if err != nil {
			slog.ErrorContext(ctx, "login lookup", "err", err)
			return flashes.Redirect(c, "/auth/login", flash.Error, "Login failed")
		}

		// 驗證密碼
		authUser, err := authenticateUser(ctx, hasher, *user, req.Password)
		if errors.Is(err, service.ErrInvalidCredentials) {
			m.Login(false)
			return flashes.Redirect(c, "/auth/login", flash.Error, "Invalid credentials")
		}
		if err != nil {
			slog.ErrorContext(ctx, "login compare", "err", err)
			return flashes.Redirect(c, "/auth/login", flash.Error, "Login failed")
		}

		// 發行存取令牌
		token, err := tokens.IssueAccessToken(*authUser)
		if err != nil {
			slog.ErrorContext(ctx, "issue token", "err", err)
			return flashes.Redirect(c, "/auth/login", flash.Error, "Login failed")
		}
		middleware.SetToken(c, token, int(cookie.MaxAge/time.Second), cookie.Secure)
		m.Login(true)
		return flashes.Redirect(c, "/admin/dashboard", flash.Success, "Login successful!")
	}
}
