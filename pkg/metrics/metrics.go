package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shenikar/safety_guardian/internal/models"
)

// Metrics - счётчики сервиса для Prometheus
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	sessionsStarted     *prometheus.CounterVec
	sessionsEnded       *prometheus.CounterVec
	collaboratorErrors  *prometheus.CounterVec
	webhookDeliveries   *prometheus.CounterVec
	activeSessionsGauge prometheus.Gauge
}

// New регистрирует метрики в reg; nil означает регистр по умолчанию
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		sessionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "safety_sessions_started_total",
				Help: "Alert sessions started by kind",
			},
			[]string{"kind"},
		),
		sessionsEnded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "safety_sessions_ended_total",
				Help: "Alert sessions that reached a terminal status",
			},
			[]string{"kind", "status"},
		),
		collaboratorErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "safety_collaborator_errors_total",
				Help: "Non-fatal failures of location, notification and storage collaborators",
			},
			[]string{"collaborator"},
		),
		webhookDeliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "safety_webhook_deliveries_total",
				Help: "Webhook delivery attempts by result",
			},
			[]string{"result"},
		),
		activeSessionsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "safety_active_sessions",
			Help: "Active alert sessions held in memory",
		}),
	}
}

// SessionStarted учитывает новую сессию
func (m *Metrics) SessionStarted(kind models.SessionKind) {
	m.sessionsStarted.WithLabelValues(string(kind)).Inc()
}

// SessionEnded учитывает завершённую сессию
func (m *Metrics) SessionEnded(kind models.SessionKind, status models.SessionStatus) {
	m.sessionsEnded.WithLabelValues(string(kind), string(status)).Inc()
}

// CollaboratorError учитывает сбой внешнего коллаборатора
func (m *Metrics) CollaboratorError(collaborator string) {
	m.collaboratorErrors.WithLabelValues(collaborator).Inc()
}

// WebhookDelivery учитывает результат отправки вебхука: delivered, retry, failed, skipped
func (m *Metrics) WebhookDelivery(result string) {
	m.webhookDeliveries.WithLabelValues(result).Inc()
}

// SetActiveSessions обновляет число активных сессий
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessionsGauge.Set(float64(n))
}

// Middleware считает HTTP-запросы по шаблону маршрута
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
