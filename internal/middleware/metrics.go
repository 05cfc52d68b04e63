package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"inkwell/internal/metrics"

	"github.com/labstack/echo/v4"
)

// UnmatchedRoute 未對應到任何路由的請求共用此標籤
const UnmatchedRoute = "unmatched"

// Metrics 以 route pattern 為標籤記錄請求數與延遲
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}

			route := c.Path()
			if route == "" {
				route = UnmatchedRoute
			}
			labels := []string{c.Request().Method, route, strconv.Itoa(status)}
			m.RequestsTotal.WithLabelValues(labels...).Inc()
			m.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
