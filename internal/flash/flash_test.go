package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newCtx(e *echo.Echo, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func flashCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("flash cookie not set")
	return nil
}

func TestRedirectThenPop(t *testing.T) {
	e := echo.New()
	m := NewMessenger("session-secret", 0, false)

	ctx, rec := newCtx(e)
	require.NoError(t, m.Redirect(ctx, "/auth/login", Success, "Registration successful! Please login."))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get(echo.HeaderLocation))
	ck := flashCookie(t, rec)
	require.True(t, ck.HttpOnly)
	require.Equal(t, 60, ck.MaxAge)

	ctx, rec = newCtx(e, ck)
	require.Equal(t, []Notice{{Kind: Success, Message: "Registration successful! Please login."}}, m.Pop(ctx))

	// Pop 會清掉 cookie
	cleared := flashCookie(t, rec)
	require.Equal(t, -1, cleared.MaxAge)
}

func TestPopWithoutCookie(t *testing.T) {
	ctx, rec := newCtx(echo.New())
	require.Nil(t, NewMessenger("s", time.Minute, false).Pop(ctx))
	require.Empty(t, rec.Result().Cookies())
}

func TestPopRejectsForeignSecret(t *testing.T) {
	e := echo.New()
	ctx, rec := newCtx(e)
	require.NoError(t, NewMessenger("one", time.Minute, false).Set(ctx, Error, "x"))

	ctx, _ = newCtx(e, flashCookie(t, rec))
	require.Nil(t, NewMessenger("two", time.Minute, false).Pop(ctx))
}

func TestPopRejectsTampered(t *testing.T) {
	ctx, _ := newCtx(echo.New(), &http.Cookie{Name: CookieName, Value: "not-a-token"})
	require.Nil(t, NewMessenger("s", time.Minute, false).Pop(ctx))
}

func TestPopExpired(t *testing.T) {
	e := echo.New()
	m := NewMessenger("s", time.Minute, true)
	t0 := time.Now()
	m.now = func() time.Time { return t0 }

	ctx, rec := newCtx(e)
	require.NoError(t, m.Set(ctx, Error, "Invalid token"))
	ck := flashCookie(t, rec)
	require.True(t, ck.Secure)

	m.now = func() time.Time { return t0.Add(2 * time.Minute) }
	ctx, _ = newCtx(e, ck)
	require.Nil(t, m.Pop(ctx))
}

// 登入成功後被 admin gate 擋下，兩則訊息都要留到下一頁
func TestNoticesQueueAcrossRedirects(t *testing.T) {
	e := echo.New()
	m := NewMessenger("s", time.Minute, false)

	ctx, rec := newCtx(e)
	require.NoError(t, m.Redirect(ctx, "/admin/dashboard", Success, "Login successful!"))

	ctx, rec = newCtx(e, flashCookie(t, rec))
	require.NoError(t, m.Redirect(ctx, "/", Error, "Admin access required"))

	ctx, _ = newCtx(e, flashCookie(t, rec))
	require.Equal(t, []Notice{
		{Kind: Success, Message: "Login successful!"},
		{Kind: Error, Message: "Admin access required"},
	}, m.Pop(ctx))
}

func TestNoticesKeepNewest(t *testing.T) {
	e := echo.New()
	m := NewMessenger("s", time.Minute, false)
	ctx, rec := newCtx(e)
	for _, msg := range []string{"one", "two", "three", "four"} {
		require.NoError(t, m.Set(ctx, Error, msg))
	}
	// 同一請求多次 Set，最後一個 Set-Cookie 為準
	cookies := rec.Result().Cookies()
	last := cookies[len(cookies)-1]

	ctx, _ = newCtx(e, last)
	got := m.Pop(ctx)
	require.Len(t, got, MaxNotices)
	require.Equal(t, "two", got[0].Message)
	require.Equal(t, "four", got[2].Message)
}

func TestSetAfterPopStartsFresh(t *testing.T) {
	e := echo.New()
	m := NewMessenger("s", time.Minute, false)
	ctx, rec := newCtx(e)
	require.NoError(t, m.Set(ctx, Success, "old"))

	ctx, rec = newCtx(e, flashCookie(t, rec))
	require.Len(t, m.Pop(ctx), 1)
	require.NoError(t, m.Set(ctx, Success, "new"))
	cookies := rec.Result().Cookies()

	ctx, _ = newCtx(e, cookies[len(cookies)-1])
	require.Equal(t, []Notice{{Kind: Success, Message: "new"}}, m.Pop(ctx))
}
