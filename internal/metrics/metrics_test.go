package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutOutcome(t *testing.T) {
	m := NewServerMetrics()
	m.CheckoutOutcome("success")
	m.CheckoutOutcome("success")
	m.CheckoutOutcome("payment_failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("payment_failed")))

	var nilMetrics *ServerMetrics
	nilMetrics.CheckoutOutcome("success")
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := NewServerMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/products/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusConflict, "x") })
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	for _, path := range []string{"/api/v1/products/1", "/api/v1/products/2", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/v1/products/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/boom", "409")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "storefront_http_requests_total"))
}
