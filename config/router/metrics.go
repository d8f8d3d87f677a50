package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/akeren/tablebook/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// metricsEnabled is opt-out: anything but a parseable false keeps /metrics on.
func metricsEnabled() bool {
	b, err := strconv.ParseBool(utils.GetEnvTrimmed("METRICS_ENABLED"))
	return err != nil || b
}

func newMetrics(reg prometheus.Registerer) *metrics {
	labels := []string{"method", "route", "status"}

	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, labels),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

func (rs *RouterService) mountMetrics() {
	if !metricsEnabled() {
		rs.logger.Info("Metrics disabled (METRICS_ENABLED=false)")
		return
	}

	rs.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rs.engine.Use(newMetrics(rs.registry).middleware())

	rs.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(rs.registry, promhttp.HandlerOpts{})))
	rs.engine.OPTIONS("/metrics", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	})

	rs.logger.Info("Metrics endpoint mounted", "path", "/metrics")
}
