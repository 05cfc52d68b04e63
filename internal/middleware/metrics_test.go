package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	e := echo.New()
	e.Use(Metrics(m))
	e.GET("/post/:slug", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot) })

	for _, path := range []string{"/post/a", "/post/b", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/post/:slug", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/boom", "418")))
	require.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestMetricsUnmatchedRoutesShareOneSeries(t *testing.T) {
	m := metrics.New()
	e := echo.New()
	e.Use(Metrics(m))
	e.GET("/post/:slug", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	for _, path := range []string{"/a1", "/b2/c", "/zz/yy/xx", "/feed.xml"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 1, testutil.CollectAndCount(m.RequestsTotal))
	require.Equal(t, 4.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", UnmatchedRoute, "404")))
}
