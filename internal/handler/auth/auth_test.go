package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/flash"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/model"
	"inkwell/internal/service"
	"inkwell/internal/store"
	"inkwell/internal/validate"
	"inkwell/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	flashes = flash.NewMessenger("session", time.Minute, false)
	tokens  = service.NewTokenIssuer("jwtsecret", time.Hour)
	hasher  = service.NewHasher(nil, bcrypt.MinCost)
	cookie  = CookieConfig{MaxAge: 7 * 24 * time.Hour}
)

type errBinder struct{}

func (errBinder) Bind(i any, c echo.Context) error { return errors.New("bind") }

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := view.New()
	require.NoError(t, err)
	e := echo.New()
	e.Renderer = r
	e.Validator = validate.New()
	return e
}

// helper to build echo context
func postForm(e *echo.Echo, h echo.HandlerFunc, form url.Values) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func notice(t *testing.T, rec *httptest.ResponseRecorder) *flash.Notice {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	notices := flashes.Pop(echo.New().NewContext(req, httptest.NewRecorder()))
	if len(notices) == 0 {
		return nil
	}
	return &notices[len(notices)-1]
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// memUsers 以 map 取代 users 資料表
type memUsers struct {
	byEmail map[string]*model.User
	nextID  int
}

func installMemUsers(t *testing.T) *memUsers {
	m := &memUsers{byEmail: map[string]*model.User{}, nextID: 1}
	registerUser = func(ctx context.Context, _ database.DB, h *service.Hasher, username, email, password string, role model.Role) (*model.User, error) {
		if _, ok := m.byEmail[email]; ok {
			return nil, service.ErrEmailTaken
		}
		hash, err := h.Hash(ctx, password)
		if err != nil {
			return nil, err
		}
		u := &model.User{ID: m.nextID, Username: username, Email: email, PasswordHash: hash, Role: role}
		m.nextID++
		m.byEmail[email] = u
		return u, nil
	}
	getUserByEmail = func(_ context.Context, _ database.DB, email string) (*model.User, error) {
		u, ok := m.byEmail[email]
		if !ok {
			return nil, store.ErrNotFound
		}
		cp := *u
		return &cp, nil
	}
	t.Cleanup(func() {
		registerUser = service.RegisterUser
		getUserByEmail = store.GetUserByEmail
		authenticateUser = service.AuthenticateUser
	})
	return m
}

func TestFormPages(t *testing.T) {
	e := newEcho(t)
	for name, h := range map[string]echo.HandlerFunc{
		"Register": RegisterFormHandler(flashes),
		"Login":    LoginFormHandler(flashes),
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "<h1>"+name+"</h1>")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	users := installMemUsers(t)
	e := newEcho(t)
	m := metrics.New()
	db := &database.FakeDB{}

	rec, err := postForm(e, RegisterHandler(db, hasher, flashes), url.Values{
		"username": {"  alice "}, "email": {"Alice@Example.com"}, "password": {"secret1"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get(echo.HeaderLocation))
	require.Equal(t, "Registration successful! Please login.", notice(t, rec).Message)
	u := users.byEmail["alice@example.com"]
	require.NotNil(t, u)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, model.RoleUser, u.Role)
	require.NotEqual(t, "secret1", u.PasswordHash)

	rec, err = postForm(e, LoginHandler(db, hasher, tokens, flashes, cookie, m), url.Values{
		"email": {"alice@example.com"}, "password": {"secret1"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/dashboard", rec.Header().Get(echo.HeaderLocation))
	require.Equal(t, "Login successful!", notice(t, rec).Message)

	tok := cookieNamed(rec, middleware.TokenCookieName)
	require.NotNil(t, tok)
	require.True(t, tok.HttpOnly)
	require.Equal(t, 7*24*3600, tok.MaxAge)
	claims, err := tokens.VerifyAccessToken(tok.Value)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.ID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, model.RoleUser, claims.Role)
	require.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.LoginSuccess)))
}

func TestRegisterValidation(t *testing.T) {
	installMemUsers(t)
	e := newEcho(t)
	h := RegisterHandler(&database.FakeDB{}, hasher, flashes)

	cases := []struct {
		form url.Values
		want string
	}{
		{url.Values{"username": {" ab "}, "email": {"a@b.co"}, "password": {"secret1"}}, "Username must be at least 3 characters"},
		{url.Values{"username": {"abc"}, "email": {"nope"}, "password": {"secret1"}}, "Invalid email address"},
		{url.Values{"username": {"abc"}, "email": {"a@b.co"}, "password": {"12345"}}, "Password must be at least 6 characters"},
	}
	for _, tc := range cases {
		rec, err := postForm(e, h, tc.form)
		require.NoError(t, err)
		require.Equal(t, "/auth/register", rec.Header().Get(echo.HeaderLocation))
		n := notice(t, rec)
		require.Equal(t, flash.Error, n.Kind)
		require.Equal(t, tc.want, n.Message)
	}
}

func TestRegisterDuplicateAndFailure(t *testing.T) {
	installMemUsers(t)
	e := newEcho(t)
	h := RegisterHandler(&database.FakeDB{}, hasher, flashes)
	form := url.Values{"username": {"bob"}, "email": {"bob@example.com"}, "password": {"secret1"}}

	_, err := postForm(e, h, form)
	require.NoError(t, err)
	rec, err := postForm(e, h, form)
	require.NoError(t, err)
	require.Equal(t, "/auth/register", rec.Header().Get(echo.HeaderLocation))
	require.Equal(t, "Email already registered", notice(t, rec).Message)

	registerUser = func(context.Context, database.DB, *service.Hasher, string, string, string, model.Role) (*model.User, error) {
		return nil, errors.New("db down")
	}
	rec, err = postForm(e, h, form)
	require.NoError(t, err)
	require.Equal(t, "Registration failed", notice(t, rec).Message)

	e.Binder = errBinder{}
	rec, err = postForm(e, h, form)
	require.NoError(t, err)
	require.Equal(t, "Registration failed", notice(t, rec).Message)
}

func TestLoginFailures(t *testing.T) {
	users := installMemUsers(t)
	e := newEcho(t)
	m := metrics.New()
	hash, err := hasher.Hash(context.Background(), "rightpw")
	require.NoError(t, err)
	users.byEmail["root@example.com"] = &model.User{ID: 9, Username: "root", Email: "root@example.com", PasswordHash: hash, Role: model.RoleAdmin}
	h := LoginHandler(&database.FakeDB{}, hasher, tokens, flashes, cookie, m)

	// 未知 Email 與密碼錯誤回應相同
	for _, form := range []url.Values{
		{"email": {"ghost@example.com"}, "password": {"rightpw"}},
		{"email": {"root@example.com"}, "password": {"wrongpw"}},
	} {
		rec, err := postForm(e, h, form)
		require.NoError(t, err)
		require.Equal(t, "/auth/login", rec.Header().Get(echo.HeaderLocation))
		require.Equal(t, &flash.Notice{Kind: flash.Error, Message: "Invalid credentials"}, notice(t, rec))
		require.Nil(t, cookieNamed(rec, middleware.TokenCookieName))
	}
	require.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues(metrics.LoginFailure)))

	rec, err := postForm(e, h, url.Values{})
	require.NoError(t, err)
	require.Equal(t, "Email and password are required", notice(t, rec).Message)

	// store 錯誤
	getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) { return nil, errors.New("down") }
	rec, err = postForm(e, h, url.Values{"email": {"root@example.com"}, "password": {"rightpw"}})
	require.NoError(t, err)
	require.Equal(t, "Login failed", notice(t, rec).Message)

	// 比對過程被取消
	getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) {
		return &model.User{ID: 9, Role: model.RoleAdmin, PasswordHash: hash}, nil
	}
	authenticateUser = func(context.Context, *service.Hasher, model.User, string) (*model.User, error) {
		return nil, context.Canceled
	}
	rec, err = postForm(e, h, url.Values{"email": {"root@example.com"}, "password": {"rightpw"}})
	require.NoError(t, err)
	require.Equal(t, "Login failed", notice(t, rec).Message)

	// 沒有 JWT_SECRET 無法發行 token
	authenticateUser = service.AuthenticateUser
	h = LoginHandler(&database.FakeDB{}, hasher, service.NewTokenIssuer("", time.Hour), flashes, cookie, nil)
	rec, err = postForm(e, h, url.Values{"email": {"root@example.com"}, "password": {"rightpw"}})
	require.NoError(t, err)
	require.Equal(t, "Login failed", notice(t, rec).Message)
	require.Nil(t, cookieNamed(rec, middleware.TokenCookieName))

	e.Binder = errBinder{}
	rec, err = postForm(e, h, url.Values{})
	require.NoError(t, err)
	require.Equal(t, "Login failed", notice(t, rec).Message)
}

func TestLogout(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: "abc"})
	rec := httptest.NewRecorder()
	require.NoError(t, LogoutHandler(flashes, CookieConfig{Secure: true})(e.NewContext(req, rec)))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	tok := cookieNamed(rec, middleware.TokenCookieName)
	require.NotNil(t, tok)
	require.Equal(t, -1, tok.MaxAge)
	require.Empty(t, tok.Value)
	require.Equal(t, "Logged out successfully", notice(t, rec).Message)
}
