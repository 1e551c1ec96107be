package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(HTTPMetricsMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "418"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/ping", "418")))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(escalationsTotal.WithLabelValues("listing"))
	IncEscalation("listing")
	assert.Equal(t, before+1, testutil.ToFloat64(escalationsTotal.WithLabelValues("listing")))

	IncWSActive()
	IncWSActive()
	DecWSActive()
	assert.Equal(t, float64(1), testutil.ToFloat64(wsActiveConnections))
}
