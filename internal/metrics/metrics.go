package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Metrics 持有自己的 registry，測試可重複建立不會衝突
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// 登入結果 success|failure
	LoginsTotal *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_requests_latency_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.LoginsTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// Login 記錄一次登入結果；nil receiver 不做事
func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.LoginsTotal.WithLabelValues(LoginSuccess).Inc()
		return
	}
	m.LoginsTotal.WithLabelValues(LoginFailure).Inc()
}

// Handler /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
