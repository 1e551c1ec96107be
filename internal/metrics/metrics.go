package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "miniapp_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	swipesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_swipes_total",
			Help: "Total number of recorded swipes.",
		},
		[]string{"decision"},
	)
	matchesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "miniapp_matches_created_total",
			Help: "Total number of matches created.",
		},
	)
	reportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_reports_total",
			Help: "Total number of accepted reports.",
		},
		[]string{"kind"},
	)
	escalationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_escalations_total",
			Help: "Total number of automatic bans and archives.",
		},
		[]string{"kind"},
	)
	rateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_rate_limited_total",
			Help: "Total number of requests rejected by rate limits.",
		},
		[]string{"scope"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "miniapp_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	eventDeliveryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "miniapp_event_delivery_errors_total",
			Help: "Total number of failed event deliveries per sink.",
		},
		[]string{"sink"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		swipesTotal,
		matchesCreatedTotal,
		reportsTotal,
		escalationsTotal,
		rateLimitedTotal,
		wsActiveConnections,
		eventDeliveryErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncSwipe(decision string) {
	swipesTotal.WithLabelValues(decision).Inc()
}

func IncMatchCreated() {
	matchesCreatedTotal.Inc()
}

func IncReport(kind string) {
	reportsTotal.WithLabelValues(kind).Inc()
}

func IncEscalation(kind string) {
	escalationsTotal.WithLabelValues(kind).Inc()
}

func IncRateLimited(scope string) {
	rateLimitedTotal.WithLabelValues(scope).Inc()
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncEventDeliveryError(sink string) {
	eventDeliveryErrorsTotal.WithLabelValues(sink).Inc()
}
