package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shenikar/safety_guardian/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SessionStarted(models.SessionKindSOS)
	m.SessionStarted(models.SessionKindSOS)
	m.SessionEnded(models.SessionKindCheckIn, models.SessionStatusExpired)
	m.CollaboratorError("notifier")
	m.WebhookDelivery("delivered")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsStarted.WithLabelValues("sos")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsEnded.WithLabelValues("checkin", "expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.collaboratorErrors.WithLabelValues("notifier")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookDeliveries.WithLabelValues("delivered")))
}

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/v1/contacts/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/contacts/abc", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/contacts/:id", "204")))
}
