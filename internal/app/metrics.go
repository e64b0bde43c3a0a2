package app

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "taskmaster_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route and status",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// instrumentHTTP records request durations labelled by the matched
// route, so path parameters don't explode cardinality.
func instrumentHTTP() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
