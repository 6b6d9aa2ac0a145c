package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkpress_http_requests_total",
			Help: "HTTP requests by method and status.",
		},
		[]string{"method", "status"},
	)

	// ModerationDecisions counts review outcomes by decision.
	ModerationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inkpress_moderation_decisions_total",
			Help: "Moderation review decisions by outcome.",
		},
		[]string{"decision"},
	)

	// ViewIncrements counts counted (deduplicated) blog views.
	ViewIncrements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inkpress_blog_views_total",
			Help: "Counted blog view increments.",
		},
	)
)

// Metrics returns a middleware recording request counters.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		httpRequests.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// MetricsHandler exposes the prometheus scrape endpoint.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
