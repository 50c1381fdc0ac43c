package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reservation outcome labels.
const (
	ResultCreated  = "created"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablebook_reservations_total",
		Help: "Reservation attempts by outcome.",
	}, []string{"result"})

	BookingsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablebook_bookings_confirmed_total",
		Help: "Bookings promoted to confirmed.",
	})

	BookingsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablebook_bookings_expired_total",
		Help: "Bookings cancelled by the expiry sweep.",
	})

	SeatsLocked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tablebook_seats_locked",
		Help: "Seats currently holding a reservation lock.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tablebook_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for the /metrics route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
