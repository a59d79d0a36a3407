package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(appointmentsCreated.WithLabelValues("ok"))
	IncAppointmentCreated("ok")
	assert.Equal(t, before+1, testutil.ToFloat64(appointmentsCreated.WithLabelValues("ok")))

	before = testutil.ToFloat64(remindersPublished)
	AddRemindersPublished(3)
	assert.Equal(t, before+3, testutil.ToFloat64(remindersPublished))
}

func TestMiddleware_ObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/cortes/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cortes/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, testutil.CollectAndCount(httpDuration))
}
