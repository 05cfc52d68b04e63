package middleware

import (
	"errors"
	"net/http"

	"inkwell/internal/flash"
	"inkwell/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserKey  = "user"
	TokenCookieName = "token"
)

const (
	msgLoginRequired = "Please login to access this page"
	msgInvalidToken  = "Invalid token"
	msgAdminRequired = "Admin access required"
)

var errMissingToken = errors.New("missing token")

func extractClaims(c echo.Context, tokens *service.TokenIssuer) (*service.Claims, error) {
	ck, err := c.Cookie(TokenCookieName)
	if err != nil || ck.Value == "" {
		return nil, errMissingToken
	}
	return tokens.VerifyAccessToken(ck.Value)
}

// RequireAuth 驗證 token cookie，成功後將 claims 放入 context
func RequireAuth(tokens *service.TokenIssuer, flashes *flash.Messenger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, tokens)
			if errors.Is(err, errMissingToken) {
				return flashes.Redirect(c, "/auth/login", flash.Error, msgLoginRequired)
			}
			if err != nil {
				return flashes.Redirect(c, "/auth/login", flash.Error, msgInvalidToken)
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// LoadUser 有合法 token 時放入 claims，否則當作訪客直接放行
func LoadUser(tokens *service.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := extractClaims(c, tokens); err == nil {
				c.Set(ContextUserKey, claims)
			}
			return next(c)
		}
	}
}

// RequireAdmin 須掛在 RequireAuth 之後
func RequireAdmin(flashes *flash.Messenger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentUser(c)
			if claims == nil || !claims.IsAdmin() {
				return flashes.Redirect(c, "/", flash.Error, msgAdminRequired)
			}
			return next(c)
		}
	}
}

// CurrentUser 取得 RequireAuth 放入的 claims，未登入時為 nil
func CurrentUser(c echo.Context) *service.Claims {
	claims, _ := c.Get(ContextUserKey).(*service.Claims)
	return claims
}

// SetToken 寫入登入 cookie
func SetToken(c echo.Context, token string, maxAge int, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearToken 清除登入 cookie
func ClearToken(c echo.Context, secure bool) {
	SetToken(c, "", -1, secure)
}
