// Package flash 以短效簽章 cookie 攜帶 redirect 後只顯示一次的提示訊息。
package flash

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "flash"
	DefaultTTL = time.Minute
)

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notice 一則提示訊息
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"msg"`
}

type noticeClaims struct {
	Notices []Notice `json:"notices"`
	jwt.RegisteredClaims
}

// pendingKey 本次請求中尚未送出的訊息，放在 echo.Context
const pendingKey = "flash.pending"

// MaxNotices cookie 最多保留的訊息數，超過時丟掉最舊的
const MaxNotices = 3

// Messenger 以 SESSION_SECRET 簽署 flash cookie
type Messenger struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewMessenger(secret string, ttl time.Duration, secure bool) *Messenger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Messenger{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

// Set 把訊息接在尚未讀取的訊息之後，重新簽署 cookie
func (m *Messenger) Set(c echo.Context, kind Kind, message string) error {
	prev := m.pending(c)
	notices := make([]Notice, 0, len(prev)+1)
	notices = append(notices, prev...)
	notices = append(notices, Notice{Kind: kind, Message: message})
	if len(notices) > MaxNotices {
		notices = notices[len(notices)-MaxNotices:]
	}
	c.Set(pendingKey, notices)

	now := m.now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noticeClaims{
		Notices: notices,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}).SignedString(m.secret)
	if err != nil {
		return err
	}
	m.writeCookie(c, tok, int(m.ttl/time.Second))
	return nil
}

// Redirect 設定訊息後以 303 導向，簽章失敗時仍會導向
func (m *Messenger) Redirect(c echo.Context, url string, kind Kind, message string) error {
	if err := m.Set(c, kind, message); err != nil {
		c.Logger().Errorf("flash: %v", err)
	}
	return c.Redirect(http.StatusSeeOther, url)
}

// Pop 依序讀出並清除所有訊息；cookie 不存在、被竄改或已過期時回傳 nil
func (m *Messenger) Pop(c echo.Context) []Notice {
	notices := m.pending(c)
	c.Set(pendingKey, []Notice{})
	if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
		m.writeCookie(c, "", -1)
	}
	if len(notices) == 0 {
		return nil
	}
	return notices
}

func (m *Messenger) pending(c echo.Context) []Notice {
	if notices, ok := c.Get(pendingKey).([]Notice); ok {
		return notices
	}
	ck, err := c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	claims := &noticeClaims{}
	_, err = jwt.ParseWithClaims(ck.Value, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil
	}
	return claims.Notices
}

func (m *Messenger) writeCookie(c echo.Context, value string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
