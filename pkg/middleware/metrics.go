package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	quotesComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_quotes_computed_total",
			Help: "Total number of quotes computed, by pricing model",
		},
		[]string{"model"},
	)

	settlementsComputedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_settlements_computed_total",
			Help: "Total number of settlements computed",
		},
	)
)

// Metrics middleware records Prometheus metrics
func Metrics(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		method := c.Request.Method

		if endpoint == "" {
			endpoint = "not_found"
		}

		httpRequestsTotal.WithLabelValues(serviceName, method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(serviceName, method, endpoint, status).Observe(duration)
	}
}

// CountQuote records a computed quote for the given pricing model
func CountQuote(model string) {
	quotesComputedTotal.WithLabelValues(model).Inc()
}

// CountSettlement records a computed settlement
func CountSettlement() {
	settlementsComputedTotal.Inc()
}
