package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	appointmentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "appointments_created_total",
			Help:      "Count of appointment creations by outcome.",
		},
		[]string{"status"},
	)

	appointmentsRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "appointments_removed_total",
			Help:      "Count of appointments removed by administrators.",
		},
	)

	voucherValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "voucher_validations_total",
			Help:      "Count of voucher validations by result.",
		},
		[]string{"result"},
	)

	loyaltyIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "loyalty_vouchers_issued_total",
			Help:      "Count of loyalty vouchers granted.",
		},
	)

	remindersPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "barbearia",
			Name:      "reminders_published_total",
			Help:      "Count of appointment reminders published.",
		},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "barbearia",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			appointmentsCreated,
			appointmentsRemoved,
			voucherValidations,
			loyaltyIssued,
			remindersPublished,
			httpDuration,
		)
	})
}

func IncAppointmentCreated(status string) {
	appointmentsCreated.WithLabelValues(status).Inc()
}

func IncAppointmentRemoved() {
	appointmentsRemoved.Inc()
}

func IncVoucherValidation(result string) {
	voucherValidations.WithLabelValues(result).Inc()
}

func IncLoyaltyIssued() {
	loyaltyIssued.Inc()
}

func AddRemindersPublished(n int) {
	remindersPublished.Add(float64(n))
}

// Middleware records request latency under the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
